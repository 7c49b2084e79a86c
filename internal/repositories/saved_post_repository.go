package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"gorm.io/gorm"
)

// SavedPostRepository defines the interface for saved post operations
type SavedPostRepository interface {
	// SavePost returns ErrDuplicateKey when the post is already saved.
	SavePost(ctx context.Context, savedPost *models.SavedPost) error
	// UnsavePost reports whether a bookmark was actually removed.
	UnsavePost(ctx context.Context, userID, postID string) (bool, error)
	IsPostSaved(ctx context.Context, userID, postID string) (bool, error)
}

// GormSavedPostRepository implements SavedPostRepository
type GormSavedPostRepository struct {
	db *gorm.DB
}

func NewGormSavedPostRepository(db *gorm.DB) *GormSavedPostRepository {
	return &GormSavedPostRepository{db: db}
}

func (r *GormSavedPostRepository) SavePost(ctx context.Context, savedPost *models.SavedPost) error {
	if savedPost.ID == "" {
		savedPost.ID = models.NewID()
	}
	return translateGormError(gormConn(ctx, r.db).Create(savedPost).Error)
}

func (r *GormSavedPostRepository) UnsavePost(ctx context.Context, userID, postID string) (bool, error) {
	res := gormConn(ctx, r.db).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormSavedPostRepository) IsPostSaved(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := gormConn(ctx, r.db).Model(&models.SavedPost{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}
