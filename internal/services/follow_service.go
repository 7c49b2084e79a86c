package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
)

// FollowService drives the follow-request lifecycle:
// NONE -> PENDING -> ACCEPTED, NONE -> ACCEPTED for public profiles, and
// PENDING -> REJECTED, which deletes the edge.
type FollowService struct {
	tx      repositories.Transactor
	users   repositories.UserRepository
	follows repositories.FollowRepository
	bus     events.Publisher
	limits  PageLimits
}

func NewFollowService(store *repositories.Store, bus events.Publisher, limits PageLimits) *FollowService {
	return &FollowService{
		tx:      store.Tx,
		users:   store.Users,
		follows: store.Follows,
		bus:     bus,
		limits:  limits,
	}
}

// PendingRequestsPage is the data of ListPendingRequests.
type PendingRequestsPage struct {
	Requests   []models.FollowRequestView `json:"requests"`
	Pagination models.Pagination          `json:"pagination"`
}

func (s *FollowService) SendFollowRequest(ctx context.Context, actor models.Actor, targetUsername string) (models.Result, error) {
	target, err := s.users.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return models.Result{}, notFound(err, "User", targetUsername)
	}
	if target.ID == actor.UserID {
		return models.Result{}, models.NewConflictError("You cannot follow yourself")
	}

	existing, err := s.follows.GetFollow(ctx, actor.UserID, target.ID)
	switch {
	case err == nil:
		return models.Result{}, existingEdgeConflict(existing)
	case !errors.Is(err, repositories.ErrNotFound):
		return models.Result{}, err
	}

	follow := &models.Follow{
		FollowerID:  actor.UserID,
		FollowingID: target.ID,
		Status:      models.FollowAccepted,
	}
	if target.IsPrivate {
		follow.Status = models.FollowPending
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.follows.CreateFollow(ctx, follow); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return models.NewConflictError("Follow request already exists")
			}
			return err
		}
		if follow.Status == models.FollowAccepted {
			return s.adjustFollowCounts(ctx, follow.FollowerID, follow.FollowingID, 1)
		}
		return nil
	})
	if err != nil {
		return models.Result{}, err
	}

	payload := events.FollowPayload{
		FollowID:         follow.ID,
		FollowerID:       actor.UserID,
		FollowerUsername: actor.Username,
		FollowedUserID:   target.ID,
	}
	if follow.Status == models.FollowPending {
		s.bus.Publish(ctx, events.UserFollowRequested, payload)
		return models.Created("Follow request sent", follow), nil
	}
	s.bus.Publish(ctx, events.UserFollowed, payload)
	return models.Created(fmt.Sprintf("You are now following %s", target.Username), follow), nil
}

func existingEdgeConflict(edge *models.Follow) error {
	if edge.Status == models.FollowPending {
		return models.NewConflictError("Follow request already sent")
	}
	return models.NewConflictError("You are already following this user")
}

// RespondToFollowRequest answers a PENDING request addressed to the actor.
// The status check and transition happen in one conditional write, so two
// concurrent responses cannot both succeed.
func (s *FollowService) RespondToFollowRequest(ctx context.Context, actor models.Actor, followReqID, decision string) (models.Result, error) {
	status := models.FollowStatus(strings.ToUpper(strings.TrimSpace(decision)))
	if status != models.FollowAccepted && status != models.FollowRejected {
		return models.Result{}, models.NewValidationError("Decision must be ACCEPTED or REJECTED")
	}
	if !models.ValidID(followReqID) {
		return models.Result{}, models.NewNotFoundError("Follow request", followReqID)
	}

	edge, err := s.follows.GetFollowByID(ctx, followReqID)
	if err != nil {
		return models.Result{}, notFound(err, "Follow request", followReqID)
	}
	if edge.FollowingID != actor.UserID {
		return models.Result{}, models.NewNotFoundError("Follow request", followReqID)
	}
	if edge.Status != models.FollowPending {
		return models.Result{}, models.NewConflictError("Follow request has already been answered")
	}

	if status == models.FollowRejected {
		deleted, err := s.follows.DeleteIfPending(ctx, followReqID, actor.UserID)
		if err != nil {
			return models.Result{}, err
		}
		if !deleted {
			return models.Result{}, models.NewConflictError("Follow request has already been answered")
		}
		return models.OK("Follow request rejected", nil), nil
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.follows.UpdateStatusIfPending(ctx, followReqID, actor.UserID, models.FollowAccepted)
		if err != nil {
			return err
		}
		if !updated {
			return models.NewConflictError("Follow request has already been answered")
		}
		return s.adjustFollowCounts(ctx, edge.FollowerID, edge.FollowingID, 1)
	})
	if err != nil {
		return models.Result{}, err
	}
	edge.Status = models.FollowAccepted

	s.bus.Publish(ctx, events.FollowRequestAccepted, events.FollowAcceptedPayload{
		FollowID:         edge.ID,
		FollowerID:       edge.FollowerID,
		FollowedUserID:   actor.UserID,
		FollowedUsername: actor.Username,
	})
	return models.OK("Follow request accepted", edge), nil
}

func (s *FollowService) ListPendingRequests(ctx context.Context, actor models.Actor, page, limit int) (models.Result, error) {
	page, limit = s.limits.normalize(page, limit)
	requests, total, err := s.follows.GetPendingRequests(ctx, actor.UserID, page, limit)
	if err != nil {
		return models.Result{}, err
	}
	if requests == nil {
		requests = []models.FollowRequestView{}
	}
	return models.OK("Pending follow requests", PendingRequestsPage{
		Requests:   requests,
		Pagination: models.NewPagination(total, page, limit),
	}), nil
}

func (s *FollowService) adjustFollowCounts(ctx context.Context, followerID, followingID string, delta int) error {
	if err := s.users.AdjustFollowingCount(ctx, followerID, delta); err != nil {
		return notFound(err, "User", followerID)
	}
	if err := s.users.AdjustFollowersCount(ctx, followingID, delta); err != nil {
		return notFound(err, "User", followingID)
	}
	return nil
}
