package models

import "time"

// FollowStatus is the lifecycle state of a follow edge. Rejected edges are
// deleted, so StatusRejected is only ever a decision, never a stored value.
type FollowStatus string

const (
	FollowPending  FollowStatus = "PENDING"
	FollowAccepted FollowStatus = "ACCEPTED"
	FollowRejected FollowStatus = "REJECTED"
)

// Follow represents a directed follow relationship between two users
type Follow struct {
	ID          string       `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	FollowerID  string       `json:"follower_id" bson:"follower_id" gorm:"size:24;uniqueIndex:idx_follower_following"`
	FollowingID string       `json:"following_id" bson:"following_id" gorm:"size:24;index;uniqueIndex:idx_follower_following"`
	Status      FollowStatus `json:"status" bson:"status" gorm:"size:10;index"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// FollowRequestView is a pending request joined with the requester profile.
type FollowRequestView struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Requester UserCompact `json:"requester"`
}

// RespondFollowRequest defines the request body for answering a follow request
type RespondFollowRequest struct {
	Status string `json:"status" validate:"required"`
}
