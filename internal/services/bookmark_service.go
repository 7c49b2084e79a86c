package services

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
)

// BookmarkService adds and removes saved posts with their counter.
type BookmarkService struct {
	tx         repositories.Transactor
	posts      repositories.PostRepository
	savedPosts repositories.SavedPostRepository
}

func NewBookmarkService(store *repositories.Store) *BookmarkService {
	return &BookmarkService{
		tx:         store.Tx,
		posts:      store.Posts,
		savedPosts: store.SavedPosts,
	}
}

func (s *BookmarkService) BookmarkPost(ctx context.Context, actor models.Actor, postID string) (models.Result, error) {
	if !models.ValidID(postID) {
		return models.Result{}, models.NewNotFoundError("Post", postID)
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return models.Result{}, notFound(err, "Post", postID)
	}

	saved := &models.SavedPost{UserID: actor.UserID, PostID: postID}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.savedPosts.SavePost(ctx, saved); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return models.NewConflictError("Post already bookmarked")
			}
			return err
		}
		return notFound(s.posts.AdjustBookmarksCount(ctx, postID, 1), "Post", postID)
	})
	if err != nil {
		return models.Result{}, err
	}
	return models.Created("Post bookmarked", saved), nil
}

func (s *BookmarkService) RemoveBookmark(ctx context.Context, actor models.Actor, postID string) (models.Result, error) {
	if !models.ValidID(postID) {
		return models.Result{}, models.NewNotFoundError("Bookmark", postID)
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		removed, err := s.savedPosts.UnsavePost(ctx, actor.UserID, postID)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewNotFoundError("Bookmark", postID)
		}
		return notFound(s.posts.AdjustBookmarksCount(ctx, postID, -1), "Post", postID)
	})
	if err != nil {
		return models.Result{}, err
	}
	return models.OK("Bookmark removed", nil), nil
}

// BookmarkStatus is the data returned by IsBookmarked.
type BookmarkStatus struct {
	PostID     string `json:"post_id"`
	Bookmarked bool   `json:"bookmarked"`
}

// IsBookmarked reports whether the actor has saved the post.
func (s *BookmarkService) IsBookmarked(ctx context.Context, actor models.Actor, postID string) (models.Result, error) {
	if !models.ValidID(postID) {
		return models.Result{}, models.NewNotFoundError("Post", postID)
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return models.Result{}, notFound(err, "Post", postID)
	}
	saved, err := s.savedPosts.IsPostSaved(ctx, actor.UserID, postID)
	if err != nil {
		return models.Result{}, err
	}
	return models.OK("Bookmark status", BookmarkStatus{PostID: postID, Bookmarked: saved}), nil
}
