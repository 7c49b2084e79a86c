package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"gorm.io/gorm"
)

// LikeRepository stores engagement marks for every likeable resource type.
type LikeRepository interface {
	// CreateLike returns ErrDuplicateKey when the mark already exists.
	CreateLike(ctx context.Context, like *models.Like) error
	// DeleteLike reports whether a mark was actually removed.
	DeleteLike(ctx context.Context, resourceType models.ResourceType, resourceID, userID string) (bool, error)
	HasUserLiked(ctx context.Context, resourceType models.ResourceType, resourceID, userID string) (bool, error)
}

// GormLikeRepository implements LikeRepository on a SQL database
type GormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GormLikeRepository
func NewGormLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

func (r *GormLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	if like.ID == "" {
		like.ID = models.NewID()
	}
	return translateGormError(gormConn(ctx, r.db).Create(like).Error)
}

func (r *GormLikeRepository) DeleteLike(ctx context.Context, resourceType models.ResourceType, resourceID, userID string) (bool, error) {
	res := gormConn(ctx, r.db).
		Where("resource_type = ? AND resource_id = ? AND user_id = ?", resourceType, resourceID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormLikeRepository) HasUserLiked(ctx context.Context, resourceType models.ResourceType, resourceID, userID string) (bool, error) {
	var count int64
	err := gormConn(ctx, r.db).Model(&models.Like{}).
		Where("resource_type = ? AND resource_id = ? AND user_id = ?", resourceType, resourceID, userID).
		Count(&count).Error
	return count > 0, err
}
