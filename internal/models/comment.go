package models

import "time"

// Comment represents a comment on a post. A reply carries ParentCommentID.
// Deletion is soft: IsDeleted flips and the row stays.
type Comment struct {
	ID              string     `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	PostID          string     `json:"post_id" bson:"post_id" gorm:"index;size:24"`
	UserID          string     `json:"user_id" bson:"user_id" gorm:"index;size:24"`
	ParentCommentID *string    `json:"parent_comment_id,omitempty" bson:"parent_comment_id,omitempty" gorm:"index;size:24"`
	Content         string     `json:"content" bson:"content" gorm:"size:1000"`
	LikesCount      int        `json:"likes_count" bson:"likes_count"`
	RepliesCount    int        `json:"replies_count" bson:"replies_count"`
	IsEdited        bool       `json:"is_edited" bson:"is_edited"`
	EditedAt        *time.Time `json:"edited_at,omitempty" bson:"edited_at,omitempty"`
	IsDeleted       bool       `json:"is_deleted" bson:"is_deleted" gorm:"index"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updated_at"`
}

// IsReply reports whether the comment hangs off another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil && *c.ParentCommentID != ""
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=1000"`
	ParentCommentID string `json:"parent_comment_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
