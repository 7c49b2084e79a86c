package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/engagement/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	// GetCommentByID returns the comment even when it is soft-deleted.
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	// IncrementRepliesIfLive bumps repliesCount only when the comment belongs
	// to postID and is not deleted. It returns ErrNotFound otherwise.
	IncrementRepliesIfLive(ctx context.Context, commentID, postID string) error
	AdjustRepliesCount(ctx context.Context, commentID string, delta int) error
	AdjustLikesCount(ctx context.Context, commentID string, delta int) error
	// UpdateContent edits a live comment and returns the stored row.
	UpdateContent(ctx context.Context, commentID, content string, at time.Time) (*models.Comment, error)
	// SoftDelete flags a live comment. It reports false if nothing matched.
	SoftDelete(ctx context.Context, commentID string, at time.Time) (bool, error)
	// SoftDeleteReplies flags the live direct replies of parentID.
	SoftDeleteReplies(ctx context.Context, parentID string, at time.Time) (int64, error)
}

// GormCommentRepository implements CommentRepository on a SQL database
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = models.NewID()
	}
	return translateGormError(gormConn(ctx, r.db).Create(comment).Error)
}

func (r *GormCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := gormConn(ctx, r.db).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &comment, nil
}

func (r *GormCommentRepository) IncrementRepliesIfLive(ctx context.Context, commentID, postID string) error {
	res := gormConn(ctx, r.db).Model(&models.Comment{}).
		Where("id = ? AND post_id = ? AND is_deleted = ?", commentID, postID, false).
		UpdateColumn("replies_count", gorm.Expr("replies_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCommentRepository) AdjustRepliesCount(ctx context.Context, commentID string, delta int) error {
	return adjustGormCounter(gormConn(ctx, r.db), &models.Comment{}, commentID, "replies_count", delta)
}

func (r *GormCommentRepository) AdjustLikesCount(ctx context.Context, commentID string, delta int) error {
	return adjustGormCounter(gormConn(ctx, r.db), &models.Comment{}, commentID, "likes_count", delta)
}

func (r *GormCommentRepository) UpdateContent(ctx context.Context, commentID, content string, at time.Time) (*models.Comment, error) {
	db := gormConn(ctx, r.db)
	res := db.Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", commentID, false).
		Updates(map[string]interface{}{
			"content":    content,
			"is_edited":  true,
			"edited_at":  at,
			"updated_at": at,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetCommentByID(ctx, commentID)
}

func (r *GormCommentRepository) SoftDelete(ctx context.Context, commentID string, at time.Time) (bool, error) {
	res := gormConn(ctx, r.db).Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", commentID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormCommentRepository) SoftDeleteReplies(ctx context.Context, parentID string, at time.Time) (int64, error) {
	res := gormConn(ctx, r.db).Model(&models.Comment{}).
		Where("parent_comment_id = ? AND is_deleted = ?", parentID, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": at})
	return res.RowsAffected, res.Error
}
