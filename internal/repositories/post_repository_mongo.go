package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = models.NewID()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return translateMongoError(err)
}

// GetPostByID retrieves a live post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&post)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return &post, nil
}

func (r *MongoPostRepository) AdjustLikesCount(ctx context.Context, postID string, delta int) error {
	return adjustMongoCounter(ctx, r.collection, bson.M{"_id": postID}, "likes_count", delta)
}

func (r *MongoPostRepository) AdjustCommentsCount(ctx context.Context, postID string, delta int) error {
	return adjustMongoCounter(ctx, r.collection, bson.M{"_id": postID}, "comments_count", delta)
}

func (r *MongoPostRepository) AdjustBookmarksCount(ctx context.Context, postID string, delta int) error {
	return adjustMongoCounter(ctx, r.collection, bson.M{"_id": postID}, "bookmarks_count", delta)
}
