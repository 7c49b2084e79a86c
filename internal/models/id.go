package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh hex ObjectID. Every backend stores ids in this form
// so documents and rows can move between stores unchanged.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id has the shape produced by NewID.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
