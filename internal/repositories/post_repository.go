package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	AdjustLikesCount(ctx context.Context, postID string, delta int) error
	AdjustCommentsCount(ctx context.Context, postID string, delta int) error
	AdjustBookmarksCount(ctx context.Context, postID string, delta int) error
}

// GormPostRepository implements PostRepository on a SQL database
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = models.NewID()
	}
	return translateGormError(gormConn(ctx, r.db).Create(post).Error)
}

// GetPostByID hides soft-deleted posts.
func (r *GormPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := gormConn(ctx, r.db).Where("id = ? AND is_deleted = ?", id, false).First(&post).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &post, nil
}

func (r *GormPostRepository) AdjustLikesCount(ctx context.Context, postID string, delta int) error {
	return adjustGormCounter(gormConn(ctx, r.db), &models.Post{}, postID, "likes_count", delta)
}

func (r *GormPostRepository) AdjustCommentsCount(ctx context.Context, postID string, delta int) error {
	return adjustGormCounter(gormConn(ctx, r.db), &models.Post{}, postID, "comments_count", delta)
}

func (r *GormPostRepository) AdjustBookmarksCount(ctx context.Context, postID string, delta int) error {
	return adjustGormCounter(gormConn(ctx, r.db), &models.Post{}, postID, "bookmarks_count", delta)
}
