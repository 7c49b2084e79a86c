package services

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
	"github.com/anonto42/nano-midea/engagement/pkg/metrics"
)

// maxToggleAttempts bounds retries after losing an insert race.
const maxToggleAttempts = 3

var errToggleRace = errors.New("concurrent toggle inserted the same mark")

// LikeService flips engagement marks and their counters.
type LikeService struct {
	tx       repositories.Transactor
	likes    repositories.LikeRepository
	registry *ResourceRegistry
	bus      events.Publisher
}

func NewLikeService(store *repositories.Store, registry *ResourceRegistry, bus events.Publisher) *LikeService {
	return &LikeService{
		tx:       store.Tx,
		likes:    store.Likes,
		registry: registry,
		bus:      bus,
	}
}

// ToggleResult is the data returned by Toggle.
type ToggleResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// Toggle flips the actor's mark on a resource. It always tries the delete
// first and branches on whether a row went away, so the outcome never
// depends on a separate existence check.
func (s *LikeService) Toggle(ctx context.Context, actor models.Actor, resourceType, resourceID string) (models.Result, error) {
	rt := models.ResourceType(resourceType)
	capability, ok := s.registry.Lookup(rt)
	if !ok {
		return models.Result{}, models.NewValidationError("Unsupported resource type: " + resourceType)
	}
	if !models.ValidID(resourceID) {
		return models.Result{}, models.NewNotFoundError(capability.Name, resourceID)
	}

	var (
		result ToggleResult
		ref    ResourceRef
		err    error
	)
	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		result, ref, err = s.toggleOnce(ctx, capability, rt, resourceID, actor.UserID)
		if !errors.Is(err, errToggleRace) {
			break
		}
	}
	if err != nil {
		return models.Result{}, err
	}

	if !result.Liked {
		metrics.EngagementToggles.WithLabelValues(resourceType, "unliked").Inc()
		return models.OK("Unliked", result), nil
	}
	metrics.EngagementToggles.WithLabelValues(resourceType, "liked").Inc()

	payload := events.LikedPayload{
		ResourceType:    rt,
		ResourceID:      resourceID,
		OwnerID:         ref.OwnerID,
		LikedByUserID:   actor.UserID,
		LikedByUsername: actor.Username,
	}
	if rt == models.ResourceComment {
		payload.PostID = ref.PostID
	}
	s.bus.Publish(ctx, capability.LikedEvent, payload)
	return models.OK("Liked", result), nil
}

func (s *LikeService) toggleOnce(ctx context.Context, c Capability, rt models.ResourceType, id, userID string) (ToggleResult, ResourceRef, error) {
	var (
		result ToggleResult
		ref    ResourceRef
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		ref, err = c.Load(ctx, id)
		if err != nil {
			return notFound(err, c.Name, id)
		}

		removed, err := s.likes.DeleteLike(ctx, rt, id, userID)
		if err != nil {
			return err
		}
		delta := -1
		if !removed {
			mark := &models.Like{ResourceType: rt, ResourceID: id, UserID: userID}
			if err := s.likes.CreateLike(ctx, mark); err != nil {
				if errors.Is(err, repositories.ErrDuplicateKey) {
					return errToggleRace
				}
				return err
			}
			delta = 1
		}
		if err := c.AdjustLikeCount(ctx, id, delta); err != nil {
			return notFound(err, c.Name, id)
		}

		// Concurrent toggles by other users commit between the first read
		// and the delta, so the count is read back after the change.
		after, err := c.Load(ctx, id)
		if err != nil {
			return notFound(err, c.Name, id)
		}
		result = ToggleResult{Liked: !removed, LikesCount: after.LikesCount}
		return nil
	})
	return result, ref, err
}

// LikeStatus reports whether the actor has liked a resource, with its
// current like count.
func (s *LikeService) LikeStatus(ctx context.Context, actor models.Actor, resourceType, resourceID string) (models.Result, error) {
	rt := models.ResourceType(resourceType)
	capability, ok := s.registry.Lookup(rt)
	if !ok {
		return models.Result{}, models.NewValidationError("Unsupported resource type: " + resourceType)
	}
	if !models.ValidID(resourceID) {
		return models.Result{}, models.NewNotFoundError(capability.Name, resourceID)
	}

	ref, err := capability.Load(ctx, resourceID)
	if err != nil {
		return models.Result{}, notFound(err, capability.Name, resourceID)
	}
	liked, err := s.likes.HasUserLiked(ctx, rt, resourceID, actor.UserID)
	if err != nil {
		return models.Result{}, err
	}
	return models.OK("Like status", ToggleResult{Liked: liked, LikesCount: ref.LikesCount}), nil
}
