package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/events"
	"github.com/anonto42/nano-midea/engagement/internal/models"
	"github.com/anonto42/nano-midea/engagement/internal/repositories"
	"github.com/anonto42/nano-midea/engagement/pkg/metrics"
)

const notificationListener = "notification-pipeline"

// NotificationService turns domain events into stored notifications and
// serves the recipient-facing notification operations.
type NotificationService struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	bus           events.Publisher
	limits        PageLimits
	now           func() time.Time
}

func NewNotificationService(store *repositories.Store, bus events.Publisher, limits PageLimits) *NotificationService {
	return &NotificationService{
		users:         store.Users,
		notifications: store.Notifications,
		bus:           bus,
		limits:        limits,
		now:           time.Now,
	}
}

// Subscribe registers the pipeline on every event that notifies someone.
func (s *NotificationService) Subscribe(sub events.Subscriber) {
	sub.Subscribe(events.UserFollowRequested, notificationListener, events.Typed(s.onFollowRequested))
	sub.Subscribe(events.UserFollowed, notificationListener, events.Typed(s.onFollowed))
	sub.Subscribe(events.FollowRequestAccepted, notificationListener, events.Typed(s.onFollowAccepted))
	for _, name := range events.LikedEvents {
		sub.Subscribe(name, notificationListener, events.Typed(s.onLiked))
	}
	sub.Subscribe(events.CommentCreated, notificationListener, events.Typed(s.onCommentCreated))
	sub.Subscribe(events.CommentReplied, notificationListener, events.Typed(s.onCommentReplied))
}

type draft struct {
	recipientID    string
	senderID       string
	senderUsername string
	kind           models.NotificationType
	content        func(sender string) string
	link           string
	entityType     models.EntityType
	entityID       string
}

func (s *NotificationService) onFollowRequested(ctx context.Context, _ events.Event, p events.FollowPayload) error {
	return s.notify(ctx, draft{
		recipientID:    p.FollowedUserID,
		senderID:       p.FollowerID,
		senderUsername: p.FollowerUsername,
		kind:           models.NotificationFollow,
		content:        func(sender string) string { return sender + " has sent you a follow request." },
		link:           "/users/" + p.FollowerUsername,
		entityType:     models.EntityUser,
		entityID:       p.FollowerID,
	})
}

func (s *NotificationService) onFollowed(ctx context.Context, _ events.Event, p events.FollowPayload) error {
	return s.notify(ctx, draft{
		recipientID:    p.FollowedUserID,
		senderID:       p.FollowerID,
		senderUsername: p.FollowerUsername,
		kind:           models.NotificationFollow,
		content:        func(sender string) string { return sender + " started following you." },
		link:           "/users/" + p.FollowerUsername,
		entityType:     models.EntityUser,
		entityID:       p.FollowerID,
	})
}

func (s *NotificationService) onFollowAccepted(ctx context.Context, _ events.Event, p events.FollowAcceptedPayload) error {
	return s.notify(ctx, draft{
		recipientID:    p.FollowerID,
		senderID:       p.FollowedUserID,
		senderUsername: p.FollowedUsername,
		kind:           models.NotificationFollow,
		content:        func(sender string) string { return sender + " accepted your follow request." },
		link:           "/users/" + p.FollowedUsername,
		entityType:     models.EntityUser,
		entityID:       p.FollowedUserID,
	})
}

func (s *NotificationService) onLiked(ctx context.Context, _ events.Event, p events.LikedPayload) error {
	d := draft{
		recipientID:    p.OwnerID,
		senderID:       p.LikedByUserID,
		senderUsername: p.LikedByUsername,
		kind:           models.NotificationLike,
		entityID:       p.ResourceID,
	}
	switch p.ResourceType {
	case models.ResourceComment:
		d.entityType = models.EntityComment
		d.link = fmt.Sprintf("/posts/%s?comment=%s", p.PostID, p.ResourceID)
	case models.ResourceStory:
		d.entityType = models.EntityStory
		d.link = "/stories/" + p.ResourceID
	default:
		d.entityType = models.EntityPost
		d.link = "/posts/" + p.ResourceID
	}
	resource := string(d.entityType)
	d.content = func(sender string) string { return fmt.Sprintf("%s liked your %s.", sender, resource) }
	return s.notify(ctx, d)
}

func (s *NotificationService) onCommentCreated(ctx context.Context, _ events.Event, p events.CommentCreatedPayload) error {
	return s.notify(ctx, draft{
		recipientID:    p.PostAuthorID,
		senderID:       p.CommentAuthorID,
		senderUsername: p.CommentAuthorUsername,
		kind:           models.NotificationComment,
		content: func(sender string) string {
			return fmt.Sprintf("%s commented on your post: \"%s\"", sender, p.Content)
		},
		link:       fmt.Sprintf("/posts/%s?comment=%s", p.PostID, p.CommentID),
		entityType: models.EntityComment,
		entityID:   p.CommentID,
	})
}

func (s *NotificationService) onCommentReplied(ctx context.Context, _ events.Event, p events.CommentRepliedPayload) error {
	return s.notify(ctx, draft{
		recipientID:    p.ParentCommentAuthorID,
		senderID:       p.ReplyAuthorID,
		senderUsername: p.ReplyAuthorUsername,
		kind:           models.NotificationComment,
		content: func(sender string) string {
			return fmt.Sprintf("%s replied to your comment: \"%s\"", sender, p.Content)
		},
		link:       fmt.Sprintf("/posts/%s?comment=%s", p.PostID, p.ReplyID),
		entityType: models.EntityComment,
		entityID:   p.ReplyID,
	})
}

// notify stores one notification and republishes it. Redelivered events
// produce duplicates; there is no dedup key.
func (s *NotificationService) notify(ctx context.Context, d draft) error {
	if d.recipientID == "" || d.recipientID == d.senderID {
		return nil
	}

	username, photo := d.senderUsername, ""
	sender, err := s.users.GetUserByID(ctx, d.senderID)
	switch {
	case err == nil:
		username, photo = sender.Username, sender.ProfilePhoto
	case !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("resolve sender %s: %w", d.senderID, err)
	}

	n := &models.Notification{
		RecipientID: d.recipientID,
		SenderID:    d.senderID,
		Type:        d.kind,
		Content:     d.content(username),
		EntityType:  d.entityType,
		EntityID:    d.entityID,
	}
	if d.link != "" {
		link := d.link
		n.Link = &link
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()

	s.bus.Publish(ctx, events.NotificationCreated, events.NotificationCreatedPayload{
		NotificationID:     n.ID,
		RecipientID:        n.RecipientID,
		SenderID:           n.SenderID,
		SenderUsername:     username,
		SenderProfilePhoto: photo,
		Type:               n.Type,
		Content:            n.Content,
		Link:               n.Link,
		EntityType:         n.EntityType,
		EntityID:           n.EntityID,
	})
	return nil
}

// NotificationsPage is the data of List.
type NotificationsPage struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	Pagination    models.Pagination     `json:"pagination"`
}

func (s *NotificationService) List(ctx context.Context, actor models.Actor, page, limit int) (models.Result, error) {
	page, limit = s.limits.normalize(page, limit)
	items, total, err := s.notifications.GetByRecipientID(ctx, actor.UserID, page, limit)
	if err != nil {
		return models.Result{}, err
	}
	unread, err := s.notifications.GetUnreadCount(ctx, actor.UserID)
	if err != nil {
		return models.Result{}, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return models.OK("Notifications", NotificationsPage{
		Notifications: items,
		UnreadCount:   unread,
		Pagination:    models.NewPagination(total, page, limit),
	}), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor models.Actor) (models.Result, error) {
	count, err := s.notifications.GetUnreadCount(ctx, actor.UserID)
	if err != nil {
		return models.Result{}, err
	}
	return models.OK("Unread notifications", map[string]int64{"count": count}), nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, actor models.Actor, id string) (models.Result, error) {
	n, err := s.ownNotification(ctx, actor, id)
	if err != nil {
		return models.Result{}, err
	}
	at := s.now()
	if err := s.notifications.MarkAsRead(ctx, id, at); err != nil {
		return models.Result{}, notFound(err, "Notification", id)
	}
	n.IsRead, n.ReadAt = true, &at
	return models.OK("Notification marked as read", n), nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, actor models.Actor) (models.Result, error) {
	updated, err := s.notifications.MarkAllAsRead(ctx, actor.UserID, s.now())
	if err != nil {
		return models.Result{}, err
	}
	return models.OK("All notifications marked as read", map[string]int64{"updated": updated}), nil
}

func (s *NotificationService) Delete(ctx context.Context, actor models.Actor, id string) (models.Result, error) {
	if _, err := s.ownNotification(ctx, actor, id); err != nil {
		return models.Result{}, err
	}
	if err := s.notifications.DeleteNotification(ctx, id); err != nil {
		return models.Result{}, notFound(err, "Notification", id)
	}
	return models.OK("Notification deleted", nil), nil
}

func (s *NotificationService) ownNotification(ctx context.Context, actor models.Actor, id string) (*models.Notification, error) {
	if !models.ValidID(id) {
		return nil, models.NewNotFoundError("Notification", id)
	}
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Notification", id)
	}
	if n.RecipientID != actor.UserID {
		return nil, models.NewUnauthorizedError("This notification is not addressed to you")
	}
	return n, nil
}
