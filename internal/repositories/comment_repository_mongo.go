package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = models.NewID()
	}
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	_, err := r.collection.InsertOne(ctx, comment)
	return translateMongoError(err)
}

func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, translateMongoError(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) IncrementRepliesIfLive(ctx context.Context, commentID, postID string) error {
	filter := bson.M{"_id": commentID, "post_id": postID, "is_deleted": false}
	return adjustMongoCounter(ctx, r.collection, filter, "replies_count", 1)
}

func (r *MongoCommentRepository) AdjustRepliesCount(ctx context.Context, commentID string, delta int) error {
	return adjustMongoCounter(ctx, r.collection, bson.M{"_id": commentID}, "replies_count", delta)
}

func (r *MongoCommentRepository) AdjustLikesCount(ctx context.Context, commentID string, delta int) error {
	return adjustMongoCounter(ctx, r.collection, bson.M{"_id": commentID}, "likes_count", delta)
}

func (r *MongoCommentRepository) UpdateContent(ctx context.Context, commentID, content string, at time.Time) (*models.Comment, error) {
	update := bson.M{"$set": bson.M{
		"content":    content,
		"is_edited":  true,
		"edited_at":  at,
		"updated_at": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment models.Comment
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": commentID, "is_deleted": false}, update, opts).Decode(&comment)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) SoftDelete(ctx context.Context, commentID string, at time.Time) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": commentID, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": at}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoCommentRepository) SoftDeleteReplies(ctx context.Context, parentID string, at time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"parent_comment_id": parentID, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": at}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
