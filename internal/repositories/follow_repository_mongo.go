package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoFollowRepository implements FollowRepository for MongoDB
type MongoFollowRepository struct {
	collection *mongo.Collection
}

// NewMongoFollowRepository creates a new MongoFollowRepository
func NewMongoFollowRepository(db *mongo.Database) *MongoFollowRepository {
	return &MongoFollowRepository{collection: db.Collection("follows")}
}

func (r *MongoFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	if follow.ID == "" {
		follow.ID = models.NewID()
	}
	follow.CreatedAt = time.Now()
	follow.UpdatedAt = follow.CreatedAt
	_, err := r.collection.InsertOne(ctx, follow)
	return translateMongoError(err)
}

func (r *MongoFollowRepository) findOne(ctx context.Context, filter bson.M) (*models.Follow, error) {
	var follow models.Follow
	if err := r.collection.FindOne(ctx, filter).Decode(&follow); err != nil {
		return nil, translateMongoError(err)
	}
	return &follow, nil
}

func (r *MongoFollowRepository) GetFollowByID(ctx context.Context, id string) (*models.Follow, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoFollowRepository) GetFollow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	return r.findOne(ctx, bson.M{"follower_id": followerID, "following_id": followingID})
}

func pendingEdgeFilter(id, followingID string) bson.M {
	return bson.M{"_id": id, "following_id": followingID, "status": models.FollowPending}
}

func (r *MongoFollowRepository) UpdateStatusIfPending(ctx context.Context, id, followingID string, status models.FollowStatus) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, pendingEdgeFilter(id, followingID),
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoFollowRepository) DeleteIfPending(ctx context.Context, id, followingID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, pendingEdgeFilter(id, followingID))
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

type pendingRequestDocument struct {
	ID        string             `bson:"_id"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	Requester models.UserCompact `bson:"requester"`
}

func (r *MongoFollowRepository) GetPendingRequests(ctx context.Context, userID string, page, limit int) ([]models.FollowRequestView, int64, error) {
	match := bson.M{"following_id": userID, "status": models.FollowPending}

	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: int64((page - 1) * limit)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "follower_id",
			"foreignField": "_id",
			"as":           "requester",
		}}},
		{{Key: "$unwind", Value: "$requester"}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []pendingRequestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	views := make([]models.FollowRequestView, len(docs))
	for i, d := range docs {
		views[i] = models.FollowRequestView{ID: d.ID, Status: d.Status, CreatedAt: d.CreatedAt, Requester: d.Requester}
	}
	return views, total, nil
}
