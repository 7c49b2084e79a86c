package models

import "time"

// ResourceType names a likeable entity.
type ResourceType string

const (
	ResourcePost    ResourceType = "post"
	ResourceComment ResourceType = "comment"
	ResourceStory   ResourceType = "story"
)

// Like is one user's mark on one resource. The unique index guarantees at
// most one mark per (resource_type, resource_id, user_id).
type Like struct {
	ID           string       `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	ResourceType ResourceType `json:"resource_type" bson:"resource_type" gorm:"size:16;uniqueIndex:idx_like_mark"`
	ResourceID   string       `json:"resource_id" bson:"resource_id" gorm:"size:24;uniqueIndex:idx_like_mark"`
	UserID       string       `json:"user_id" bson:"user_id" gorm:"size:24;uniqueIndex:idx_like_mark"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
}
