package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoSavedPostRepository struct {
	collection *mongo.Collection
}

func NewMongoSavedPostRepository(db *mongo.Database) *MongoSavedPostRepository {
	return &MongoSavedPostRepository{collection: db.Collection("saved_posts")}
}

func (r *MongoSavedPostRepository) SavePost(ctx context.Context, savedPost *models.SavedPost) error {
	if savedPost.ID == "" {
		savedPost.ID = models.NewID()
	}
	savedPost.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, savedPost)
	return translateMongoError(err)
}

func (r *MongoSavedPostRepository) UnsavePost(ctx context.Context, userID, postID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "post_id": postID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoSavedPostRepository) IsPostSaved(ctx context.Context, userID, postID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "post_id": postID})
	return n > 0, err
}
