package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoLikeRepository struct {
	collection *mongo.Collection
}

func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection("likes")}
}

func (r *MongoLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = models.NewID()
	}
	like.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, like)
	return translateMongoError(err)
}

func markFilter(resourceType models.ResourceType, resourceID, userID string) bson.M {
	return bson.M{"resource_type": resourceType, "resource_id": resourceID, "user_id": userID}
}

func (r *MongoLikeRepository) DeleteLike(ctx context.Context, resourceType models.ResourceType, resourceID, userID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, markFilter(resourceType, resourceID, userID))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoLikeRepository) HasUserLiked(ctx context.Context, resourceType models.ResourceType, resourceID, userID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, markFilter(resourceType, resourceID, userID))
	return n > 0, err
}
