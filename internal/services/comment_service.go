package services

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
)

// CommentService creates, edits and soft-deletes comments together with the
// counters that depend on them.
type CommentService struct {
	tx       repositories.Transactor
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	bus      events.Publisher
	now      func() time.Time
}

func NewCommentService(store *repositories.Store, bus events.Publisher) *CommentService {
	return &CommentService{
		tx:       store.Tx,
		posts:    store.Posts,
		comments: store.Comments,
		bus:      bus,
		now:      time.Now,
	}
}

// CreateCommentInput describes a new comment or reply.
type CreateCommentInput struct {
	PostID          string
	Content         string
	ParentCommentID string
}

// DeleteCommentResult is the data returned by DeleteComment.
type DeleteCommentResult struct {
	CommentID      string `json:"commentId"`
	RepliesDeleted int64  `json:"repliesDeleted"`
}

func (s *CommentService) CreateComment(ctx context.Context, actor models.Actor, in CreateCommentInput) (models.Result, error) {
	content, err := cleanCommentContent(in.Content)
	if err != nil {
		return models.Result{}, err
	}
	if !models.ValidID(in.PostID) {
		return models.Result{}, models.NewNotFoundError("Post", in.PostID)
	}
	if in.ParentCommentID != "" && !models.ValidID(in.ParentCommentID) {
		return models.Result{}, models.NewNotFoundError("Comment", in.ParentCommentID)
	}

	post, err := s.posts.GetPostByID(ctx, in.PostID)
	if err != nil {
		return models.Result{}, notFound(err, "Post", in.PostID)
	}

	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  actor.UserID,
		Content: content,
	}
	var parent *models.Comment
	if in.ParentCommentID != "" {
		parentID := in.ParentCommentID
		comment.ParentCommentID = &parentID
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if comment.IsReply() {
			p, err := s.comments.GetCommentByID(ctx, *comment.ParentCommentID)
			if err != nil {
				return notFound(err, "Comment", *comment.ParentCommentID)
			}
			if p.IsDeleted || p.PostID != post.ID {
				return models.NewNotFoundError("Comment", p.ID)
			}
			parent = p
		}

		if err := s.comments.CreateComment(ctx, comment); err != nil {
			return err
		}
		if err := s.posts.AdjustCommentsCount(ctx, post.ID, 1); err != nil {
			return notFound(err, "Post", post.ID)
		}
		if parent != nil {
			if err := s.comments.IncrementRepliesIfLive(ctx, parent.ID, post.ID); err != nil {
				return notFound(err, "Comment", parent.ID)
			}
		}
		return nil
	})
	if err != nil {
		return models.Result{}, err
	}

	if parent != nil {
		s.bus.Publish(ctx, events.CommentReplied, events.CommentRepliedPayload{
			ReplyID:               comment.ID,
			ParentCommentID:       parent.ID,
			ParentCommentAuthorID: parent.UserID,
			PostID:                post.ID,
			ReplyAuthorID:         actor.UserID,
			ReplyAuthorUsername:   actor.Username,
			Content:               comment.Content,
		})
		return models.Created("Reply created", comment), nil
	}

	s.bus.Publish(ctx, events.CommentCreated, events.CommentCreatedPayload{
		CommentID:             comment.ID,
		PostID:                post.ID,
		PostAuthorID:          post.UserID,
		CommentAuthorID:       actor.UserID,
		CommentAuthorUsername: actor.Username,
		Content:               comment.Content,
	})
	return models.Created("Comment created", comment), nil
}

// UpdateComment edits a live comment owned by the actor. It is a single
// document write.
func (s *CommentService) UpdateComment(ctx context.Context, actor models.Actor, commentID, content string) (models.Result, error) {
	content, err := cleanCommentContent(content)
	if err != nil {
		return models.Result{}, err
	}
	comment, err := s.loadLive(ctx, commentID)
	if err != nil {
		return models.Result{}, err
	}
	if comment.UserID != actor.UserID {
		return models.Result{}, models.NewUnauthorizedError("You can only edit your own comments")
	}

	updated, err := s.comments.UpdateContent(ctx, commentID, content, s.now())
	if err != nil {
		return models.Result{}, notFound(err, "Comment", commentID)
	}
	return models.OK("Comment updated", updated), nil
}

// DeleteComment soft-deletes a comment and its direct replies. Replies of
// replies are left alone. Counters drop by exactly the rows flagged here.
func (s *CommentService) DeleteComment(ctx context.Context, actor models.Actor, postID, commentID string) (models.Result, error) {
	comment, err := s.loadLive(ctx, commentID)
	if err != nil {
		return models.Result{}, err
	}
	if comment.PostID != postID {
		return models.Result{}, models.NewNotFoundError("Comment", commentID)
	}
	if comment.UserID != actor.UserID {
		return models.Result{}, models.NewUnauthorizedError("You can only delete your own comments")
	}

	var replies int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		at := s.now()
		deleted, err := s.comments.SoftDelete(ctx, commentID, at)
		if err != nil {
			return err
		}
		if !deleted {
			return models.NewNotFoundError("Comment", commentID)
		}

		replies, err = s.comments.SoftDeleteReplies(ctx, commentID, at)
		if err != nil {
			return err
		}
		if err := s.posts.AdjustCommentsCount(ctx, comment.PostID, -int(1+replies)); err != nil {
			return notFound(err, "Post", comment.PostID)
		}
		if comment.IsReply() {
			if err := s.comments.AdjustRepliesCount(ctx, *comment.ParentCommentID, -1); err != nil {
				return notFound(err, "Comment", *comment.ParentCommentID)
			}
		}
		return nil
	})
	if err != nil {
		return models.Result{}, err
	}
	return models.OK("Comment deleted", DeleteCommentResult{CommentID: commentID, RepliesDeleted: replies}), nil
}

func (s *CommentService) loadLive(ctx context.Context, commentID string) (*models.Comment, error) {
	if !models.ValidID(commentID) {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "Comment", commentID)
	}
	if comment.IsDeleted {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return comment, nil
}
