package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	// CreateFollow returns ErrDuplicateKey when an edge for the pair exists.
	CreateFollow(ctx context.Context, follow *models.Follow) error
	GetFollowByID(ctx context.Context, id string) (*models.Follow, error)
	GetFollow(ctx context.Context, followerID, followingID string) (*models.Follow, error)
	// UpdateStatusIfPending moves a PENDING edge addressed to followingID to
	// status in a single conditional write. It reports whether it matched.
	UpdateStatusIfPending(ctx context.Context, id, followingID string, status models.FollowStatus) (bool, error)
	// DeleteIfPending removes a PENDING edge addressed to followingID.
	DeleteIfPending(ctx context.Context, id, followingID string) (bool, error)
	GetPendingRequests(ctx context.Context, userID string, page, limit int) ([]models.FollowRequestView, int64, error)
}

// GormFollowRepository implements FollowRepository on a SQL database
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GormFollowRepository
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

func (r *GormFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	if follow.ID == "" {
		follow.ID = models.NewID()
	}
	return translateGormError(gormConn(ctx, r.db).Create(follow).Error)
}

func (r *GormFollowRepository) GetFollowByID(ctx context.Context, id string) (*models.Follow, error) {
	var follow models.Follow
	if err := gormConn(ctx, r.db).Where("id = ?", id).First(&follow).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &follow, nil
}

func (r *GormFollowRepository) GetFollow(ctx context.Context, followerID, followingID string) (*models.Follow, error) {
	var follow models.Follow
	err := gormConn(ctx, r.db).Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&follow).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &follow, nil
}

func (r *GormFollowRepository) UpdateStatusIfPending(ctx context.Context, id, followingID string, status models.FollowStatus) (bool, error) {
	res := gormConn(ctx, r.db).Model(&models.Follow{}).
		Where("id = ? AND following_id = ? AND status = ?", id, followingID, models.FollowPending).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormFollowRepository) DeleteIfPending(ctx context.Context, id, followingID string) (bool, error) {
	res := gormConn(ctx, r.db).
		Where("id = ? AND following_id = ? AND status = ?", id, followingID, models.FollowPending).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type pendingRequestRow struct {
	ID           string
	Status       string
	CreatedAt    time.Time
	RequesterID  string
	Username     string
	FullName     string
	ProfilePhoto string
}

func (r *GormFollowRepository) GetPendingRequests(ctx context.Context, userID string, page, limit int) ([]models.FollowRequestView, int64, error) {
	db := gormConn(ctx, r.db)

	var total int64
	if err := db.Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", userID, models.FollowPending).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []pendingRequestRow
	err := db.Table("follows").
		Select("follows.id, follows.status, follows.created_at, users.id AS requester_id, users.username, users.full_name, users.profile_photo").
		Joins("JOIN users ON users.id = follows.follower_id").
		Where("follows.following_id = ? AND follows.status = ?", userID, models.FollowPending).
		Order("follows.created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]models.FollowRequestView, len(rows))
	for i, row := range rows {
		views[i] = models.FollowRequestView{
			ID:        row.ID,
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
			Requester: models.UserCompact{
				ID:           row.RequesterID,
				Username:     row.Username,
				FullName:     row.FullName,
				ProfilePhoto: row.ProfilePhoto,
			},
		}
	}
	return views, total, nil
}
