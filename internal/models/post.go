package models

import "time"

// Post is a user post. Counter fields are only ever changed by atomic deltas.
type Post struct {
	ID             string    `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	UserID         string    `json:"user_id" bson:"user_id" gorm:"index;size:24"`
	Content        string    `json:"content" bson:"content"`
	LikesCount     int       `json:"likes_count" bson:"likes_count"`
	CommentsCount  int       `json:"comments_count" bson:"comments_count"`
	BookmarksCount int       `json:"bookmarks_count" bson:"bookmarks_count"`
	IsDeleted      bool      `json:"-" bson:"is_deleted"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}
