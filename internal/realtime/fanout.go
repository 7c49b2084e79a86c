package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anonto42/nano-midea/engagement/internal/events"
)

const fanoutListener = "realtime-fanout"

// Message is the envelope written to a user's channel.
type Message struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestampMs"`
}

// Deliverer hands an encoded message to a user's channel.
type Deliverer interface {
	Deliver(ctx context.Context, userID string, payload []byte) error
}

// Fanout projects domain events into realtime messages for their recipient.
type Fanout struct {
	out Deliverer
}

func NewFanout(out Deliverer) *Fanout {
	return &Fanout{out: out}
}

type userRef struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// Subscribe registers the fanout on the domain events and NotificationCreated.
func (f *Fanout) Subscribe(sub events.Subscriber) {
	sub.Subscribe(events.UserFollowRequested, fanoutListener, events.Typed(f.onFollow))
	sub.Subscribe(events.UserFollowed, fanoutListener, events.Typed(f.onFollow))
	sub.Subscribe(events.FollowRequestAccepted, fanoutListener, events.Typed(f.onFollowAccepted))
	for _, name := range events.LikedEvents {
		sub.Subscribe(name, fanoutListener, events.Typed(f.onLiked))
	}
	sub.Subscribe(events.CommentCreated, fanoutListener, events.Typed(f.onCommentCreated))
	sub.Subscribe(events.CommentReplied, fanoutListener, events.Typed(f.onCommentReplied))
	sub.Subscribe(events.NotificationCreated, fanoutListener, events.Typed(f.onNotificationCreated))
}

func (f *Fanout) onFollow(ctx context.Context, evt events.Event, p events.FollowPayload) error {
	return f.push(ctx, evt, p.FollowedUserID, p.FollowerID, map[string]any{
		"followId": p.FollowID,
		"follower": userRef{UserID: p.FollowerID, Username: p.FollowerUsername},
	})
}

func (f *Fanout) onFollowAccepted(ctx context.Context, evt events.Event, p events.FollowAcceptedPayload) error {
	return f.push(ctx, evt, p.FollowerID, p.FollowedUserID, map[string]any{
		"followId":   p.FollowID,
		"acceptedBy": userRef{UserID: p.FollowedUserID, Username: p.FollowedUsername},
	})
}

func (f *Fanout) onLiked(ctx context.Context, evt events.Event, p events.LikedPayload) error {
	data := map[string]any{
		"resourceType": p.ResourceType,
		"resourceId":   p.ResourceID,
		"likedBy":      userRef{UserID: p.LikedByUserID, Username: p.LikedByUsername},
	}
	if p.PostID != "" {
		data["postId"] = p.PostID
	}
	return f.push(ctx, evt, p.OwnerID, p.LikedByUserID, data)
}

func (f *Fanout) onCommentCreated(ctx context.Context, evt events.Event, p events.CommentCreatedPayload) error {
	return f.push(ctx, evt, p.PostAuthorID, p.CommentAuthorID, map[string]any{
		"commentId": p.CommentID,
		"postId":    p.PostID,
		"content":   p.Content,
		"author":    userRef{UserID: p.CommentAuthorID, Username: p.CommentAuthorUsername},
	})
}

func (f *Fanout) onCommentReplied(ctx context.Context, evt events.Event, p events.CommentRepliedPayload) error {
	return f.push(ctx, evt, p.ParentCommentAuthorID, p.ReplyAuthorID, map[string]any{
		"commentId":       p.ReplyID,
		"parentCommentId": p.ParentCommentID,
		"postId":          p.PostID,
		"content":         p.Content,
		"author":          userRef{UserID: p.ReplyAuthorID, Username: p.ReplyAuthorUsername},
	})
}

func (f *Fanout) onNotificationCreated(ctx context.Context, evt events.Event, p events.NotificationCreatedPayload) error {
	return f.push(ctx, evt, p.RecipientID, p.SenderID, map[string]any{
		"notificationId": p.NotificationID,
		"type":           p.Type,
		"content":        p.Content,
		"link":           p.Link,
		"sender":         userRef{UserID: p.SenderID, Username: p.SenderUsername, ProfilePhoto: p.SenderProfilePhoto},
		"entityType":     p.EntityType,
		"entityId":       p.EntityID,
	})
}

// push skips self-directed events.
func (f *Fanout) push(ctx context.Context, evt events.Event, recipientID, actorID string, data any) error {
	if recipientID == "" || recipientID == actorID {
		return nil
	}
	payload, err := json.Marshal(Message{Type: evt.Name, Data: data, Timestamp: evt.Timestamp})
	if err != nil {
		return fmt.Errorf("encode %s message: %w", evt.Name, err)
	}
	return f.out.Deliver(ctx, recipientID, payload)
}
