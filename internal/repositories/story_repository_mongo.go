package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoStoryRepository struct {
	collection *mongo.Collection
}

func NewMongoStoryRepository(db *mongo.Database) *MongoStoryRepository {
	return &MongoStoryRepository{collection: db.Collection("stories")}
}

func (r *MongoStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	if story.ID == "" {
		story.ID = models.NewID()
	}
	story.CreatedAt = time.Now()
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = story.CreatedAt.Add(storyTTL)
	}
	_, err := r.collection.InsertOne(ctx, story)
	return translateMongoError(err)
}

func (r *MongoStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&story); err != nil {
		return nil, translateMongoError(err)
	}
	return &story, nil
}

func (r *MongoStoryRepository) AdjustLikesCount(ctx context.Context, storyID string, delta int) error {
	return adjustMongoCounter(ctx, r.collection, bson.M{"_id": storyID}, "likes_count", delta)
}
