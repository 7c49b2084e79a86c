package events

import "github.com/anonto42/nano-midea/engagement/internal/models"

// Event names.
const (
	UserFollowRequested   = "UserFollowRequested"
	UserFollowed          = "UserFollowed"
	FollowRequestAccepted = "FollowRequestAccepted"
	PostLiked             = "PostLiked"
	CommentLiked          = "CommentLiked"
	StoryLiked            = "StoryLiked"
	CommentCreated        = "CommentCreated"
	CommentReplied        = "CommentReplied"
	NotificationCreated   = "NotificationCreated"
)

// LikedEvents lists the per-resource liked events.
var LikedEvents = []string{PostLiked, CommentLiked, StoryLiked}

// FollowPayload is carried by UserFollowRequested and UserFollowed.
type FollowPayload struct {
	FollowID         string `json:"followId"`
	FollowerID       string `json:"followerId"`
	FollowerUsername string `json:"followerUsername"`
	FollowedUserID   string `json:"followedUserId"`
}

// FollowAcceptedPayload is carried by FollowRequestAccepted.
type FollowAcceptedPayload struct {
	FollowID         string `json:"followId"`
	FollowerID       string `json:"followerId"`
	FollowedUserID   string `json:"followedUserId"`
	FollowedUsername string `json:"followedUsername"`
}

// LikedPayload is carried by every liked event. PostID is set for comments
// so listeners can build a link without another lookup.
type LikedPayload struct {
	ResourceType    models.ResourceType `json:"resourceType"`
	ResourceID      string              `json:"resourceId"`
	PostID          string              `json:"postId,omitempty"`
	OwnerID         string              `json:"ownerId"`
	LikedByUserID   string              `json:"likedByUserId"`
	LikedByUsername string              `json:"likedByUsername"`
}

type CommentCreatedPayload struct {
	CommentID             string `json:"commentId"`
	PostID                string `json:"postId"`
	PostAuthorID          string `json:"postAuthorId"`
	CommentAuthorID       string `json:"commentAuthorId"`
	CommentAuthorUsername string `json:"commentAuthorUsername"`
	Content               string `json:"content"`
}

type CommentRepliedPayload struct {
	ReplyID               string `json:"replyId"`
	ParentCommentID       string `json:"parentCommentId"`
	ParentCommentAuthorID string `json:"parentCommentAuthorId"`
	PostID                string `json:"postId"`
	ReplyAuthorID         string `json:"replyAuthorId"`
	ReplyAuthorUsername   string `json:"replyAuthorUsername"`
	Content               string `json:"content"`
}

// NotificationCreatedPayload is republished after a notification row is
// stored, for realtime delivery.
type NotificationCreatedPayload struct {
	NotificationID     string                  `json:"notificationId"`
	RecipientID        string                  `json:"recipientId"`
	SenderID           string                  `json:"senderId"`
	SenderUsername     string                  `json:"senderUsername"`
	SenderProfilePhoto string                  `json:"senderProfilePhoto,omitempty"`
	Type               models.NotificationType `json:"type"`
	Content            string                  `json:"content"`
	Link               *string                 `json:"link,omitempty"`
	EntityType         models.EntityType       `json:"entityType"`
	EntityID           string                  `json:"entityId"`
}
