package models

import "time"

// NotificationType classifies a notification for clients.
type NotificationType string

const (
	NotificationLike      NotificationType = "like"
	NotificationComment   NotificationType = "comment"
	NotificationFollow    NotificationType = "follow"
	NotificationMention   NotificationType = "mention"
	NotificationSystem    NotificationType = "system"
	NotificationShare     NotificationType = "share"
	NotificationStoryView NotificationType = "story_view"
	NotificationTag       NotificationType = "tag"
)

// EntityType names what a notification points at.
type EntityType string

const (
	EntityPost    EntityType = "post"
	EntityComment EntityType = "comment"
	EntityStory   EntityType = "story"
	EntityMessage EntityType = "message"
	EntityUser    EntityType = "user"
)

// Notification represents a user notification. Only the notification
// pipeline writes these.
type Notification struct {
	ID          string           `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	RecipientID string           `json:"recipient_id" bson:"recipient_id" gorm:"size:24;index"`
	SenderID    string           `json:"sender_id" bson:"sender_id" gorm:"size:24"`
	Type        NotificationType `json:"type" bson:"type" gorm:"size:30"`
	Content     string           `json:"content" bson:"content"`
	Link        *string          `json:"link,omitempty" bson:"link,omitempty"`
	EntityType  EntityType       `json:"entity_type" bson:"entity_type" gorm:"size:20"`
	EntityID    string           `json:"entity_id" bson:"entity_id" gorm:"size:24"`
	IsRead      bool             `json:"is_read" bson:"is_read" gorm:"index"`
	ReadAt      *time.Time       `json:"read_at,omitempty" bson:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at" gorm:"index"`
}
