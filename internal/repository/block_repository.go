package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-core/internal/model"
)

type BlockRepository interface {
	Exists(ctx context.Context, blockerID, blockedID string) (bool, error)
	// ExistsBetween 任一方向是否存在拉黑
	ExistsBetween(ctx context.Context, a, b string) (bool, error)
	Delete(ctx context.Context, blockerID, blockedID string) (bool, error)
	// ExcludedIDs 我拉黑的 ∪ 拉黑我的，供所有可见性查询过滤
	ExcludedIDs(ctx context.Context, userID string) ([]string, error)
}

type blockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) BlockRepository { return &blockRepository{db: db} }

func (r *blockRepository) Exists(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *blockRepository) ExistsBetween(ctx context.Context, a, b string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{})
	return res.RowsAffected > 0, res.Error
}

func (r *blockRepository) ExcludedIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT blocked_id FROM blocks WHERE blocker_id = ?
		UNION
		SELECT blocker_id FROM blocks WHERE blocked_id = ?
	`, userID, userID).Scan(&ids).Error
	return ids, err
}
