package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// Store bundles every repository with the transactor of the same backend.
type Store struct {
	Tx            Transactor
	Users         UserRepository
	Posts         PostRepository
	Comments      CommentRepository
	Stories       StoryRepository
	Likes         LikeRepository
	Follows       FollowRepository
	SavedPosts    SavedPostRepository
	Notifications NotificationRepository
}

// NewGormStore wires the SQL-backed repositories.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Tx:            NewGormTransactor(db),
		Users:         NewGormUserRepository(db),
		Posts:         NewGormPostRepository(db),
		Comments:      NewGormCommentRepository(db),
		Stories:       NewGormStoryRepository(db),
		Likes:         NewGormLikeRepository(db),
		Follows:       NewGormFollowRepository(db),
		SavedPosts:    NewGormSavedPostRepository(db),
		Notifications: NewGormNotificationRepository(db),
	}
}

// NewMongoStore wires the document-backed repositories on database name.
func NewMongoStore(client *mongo.Client, name string) *Store {
	db := client.Database(name)
	return &Store{
		Tx:            NewMongoTransactor(client),
		Users:         NewMongoUserRepository(db),
		Posts:         NewMongoPostRepository(db),
		Comments:      NewMongoCommentRepository(db),
		Stories:       NewMongoStoryRepository(db),
		Likes:         NewMongoLikeRepository(db),
		Follows:       NewMongoFollowRepository(db),
		SavedPosts:    NewMongoSavedPostRepository(db),
		Notifications: NewMongoNotificationRepository(db),
	}
}

// AutoMigrate creates the SQL schema, including the unique indexes the
// toggle and follow logic depend on.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Story{},
		&models.Like{},
		&models.Follow{},
		&models.SavedPost{},
		&models.Notification{},
	)
}

// EnsureIndexes creates the MongoDB indexes. Unique ones back the same
// invariants as the SQL schema.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "firebase_uid", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		"likes": {
			{Keys: bson.D{{Key: "resource_type", Value: 1}, {Key: "resource_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
		},
		"follows": {
			{Keys: bson.D{{Key: "follower_id", Value: 1}, {Key: "following_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "following_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"saved_posts": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "post_id", Value: 1}}, Options: unique},
		},
		"comments": {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "parent_comment_id", Value: 1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, indexes := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}
