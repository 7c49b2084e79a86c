package models

import "time"

// Story is a short-lived post. Only its like counter is touched here.
type Story struct {
	ID         string    `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	UserID     string    `json:"user_id" bson:"user_id" gorm:"index;size:24"`
	MediaURL   string    `json:"media_url" bson:"media_url"`
	Type       string    `json:"type" bson:"type" gorm:"size:10"` // "image" or "video"
	LikesCount int       `json:"likes_count" bson:"likes_count"`
	ExpiresAt  time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
