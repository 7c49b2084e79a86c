package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the profile side of an account. Authentication lives elsewhere;
// this core only needs display fields, the privacy flag and follow counters.
type User struct {
	ID             string    `json:"id" bson:"_id" gorm:"primaryKey;size:24"`
	Username       string    `json:"username" bson:"username" gorm:"uniqueIndex;size:50"`
	FullName       string    `json:"full_name" bson:"full_name"`
	Email          string    `json:"email,omitempty" bson:"email,omitempty" gorm:"index"`
	FirebaseUID    string    `json:"-" bson:"firebase_uid,omitempty" gorm:"index"`
	ProfilePhoto   string    `json:"profile_photo,omitempty" bson:"profile_photo,omitempty"`
	Role           string    `json:"role" bson:"role" gorm:"size:20"`
	IsPrivate      bool      `json:"is_private" bson:"is_private"`
	FollowersCount int       `json:"followers_count" bson:"followers_count"`
	FollowingCount int       `json:"following_count" bson:"following_count"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the projection embedded in listings and notifications.
type UserCompact struct {
	ID           string `json:"id" bson:"_id"`
	Username     string `json:"username" bson:"username"`
	FullName     string `json:"full_name" bson:"full_name"`
	ProfilePhoto string `json:"profile_photo,omitempty" bson:"profile_photo,omitempty"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		ProfilePhoto: u.ProfilePhoto,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
