package services

import (
	"context"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
)

// ResourceRef is what the toggle engine learns about a likeable resource.
type ResourceRef struct {
	OwnerID    string
	PostID     string
	LikesCount int
}

// Capability is the per-type behaviour the toggle engine needs.
type Capability struct {
	Name            string
	LikedEvent      string
	Load            func(ctx context.Context, id string) (ResourceRef, error)
	AdjustLikeCount func(ctx context.Context, id string, delta int) error
}

// ResourceRegistry maps a resource type to its capability.
type ResourceRegistry struct {
	capabilities map[models.ResourceType]Capability
}

func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{capabilities: make(map[models.ResourceType]Capability)}
}

func (r *ResourceRegistry) Register(t models.ResourceType, c Capability) {
	r.capabilities[t] = c
}

func (r *ResourceRegistry) Lookup(t models.ResourceType) (Capability, bool) {
	c, ok := r.capabilities[t]
	return c, ok
}

// DefaultResourceRegistry registers posts, comments and stories from store.
func DefaultResourceRegistry(store *repositories.Store) *ResourceRegistry {
	reg := NewResourceRegistry()
	reg.Register(models.ResourcePost, Capability{
		Name:       "Post",
		LikedEvent: events.PostLiked,
		Load: func(ctx context.Context, id string) (ResourceRef, error) {
			post, err := store.Posts.GetPostByID(ctx, id)
			if err != nil {
				return ResourceRef{}, err
			}
			return ResourceRef{OwnerID: post.UserID, PostID: post.ID, LikesCount: post.LikesCount}, nil
		},
		AdjustLikeCount: store.Posts.AdjustLikesCount,
	})
	reg.Register(models.ResourceComment, Capability{
		Name:       "Comment",
		LikedEvent: events.CommentLiked,
		Load: func(ctx context.Context, id string) (ResourceRef, error) {
			comment, err := store.Comments.GetCommentByID(ctx, id)
			if err != nil {
				return ResourceRef{}, err
			}
			if comment.IsDeleted {
				return ResourceRef{}, repositories.ErrNotFound
			}
			return ResourceRef{OwnerID: comment.UserID, PostID: comment.PostID, LikesCount: comment.LikesCount}, nil
		},
		AdjustLikeCount: store.Comments.AdjustLikesCount,
	})
	reg.Register(models.ResourceStory, Capability{
		Name:       "Story",
		LikedEvent: events.StoryLiked,
		Load: func(ctx context.Context, id string) (ResourceRef, error) {
			story, err := store.Stories.GetStoryByID(ctx, id)
			if err != nil {
				return ResourceRef{}, err
			}
			return ResourceRef{OwnerID: story.UserID, LikesCount: story.LikesCount}, nil
		},
		AdjustLikeCount: store.Stories.AdjustLikesCount,
	})
	return reg
}
