package models

import "time"

// SavedPost represents a bookmarked/saved post by a user
type SavedPost struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	UserID    string    `json:"user_id" bson:"user_id" gorm:"size:24;uniqueIndex:idx_user_post_save"`
	PostID    string    `json:"post_id" bson:"post_id" gorm:"size:24;index;uniqueIndex:idx_user_post_save"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
