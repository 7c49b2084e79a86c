package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story operations
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	AdjustLikesCount(ctx context.Context, storyID string, delta int) error
}

const storyTTL = 24 * time.Hour

type GormStoryRepository struct {
	db *gorm.DB
}

func NewGormStoryRepository(db *gorm.DB) *GormStoryRepository {
	return &GormStoryRepository{db: db}
}

func (r *GormStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	if story.ID == "" {
		story.ID = models.NewID()
	}
	if story.ExpiresAt.IsZero() {
		story.ExpiresAt = time.Now().Add(storyTTL)
	}
	return translateGormError(gormConn(ctx, r.db).Create(story).Error)
}

func (r *GormStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	if err := gormConn(ctx, r.db).Where("id = ?", id).First(&story).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &story, nil
}

func (r *GormStoryRepository) AdjustLikesCount(ctx context.Context, storyID string, delta int) error {
	return adjustGormCounter(gormConn(ctx, r.db), &models.Story{}, storyID, "likes_count", delta)
}
