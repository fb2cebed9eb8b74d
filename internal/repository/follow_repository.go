package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/pkg/pagination"
)

type FollowRepository interface {
	// Create 返回是否真正插入；并发重复 toggle 靠唯一键兜底，冲突方静默归于既成状态
	Create(ctx context.Context, followerID, followeeID string) (bool, error)
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowings(ctx context.Context, followerID string, cur *pagination.Cursor, limit int) ([]*model.Follow, error)
	ListFollowers(ctx context.Context, followeeID string, cur *pagination.Cursor, limit int) ([]*model.Follow, error)
	// ListFollowerIDs 全量粉丝 ID，新帖扇出用
	ListFollowerIDs(ctx context.Context, followeeID string) ([]string, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) (bool, error) {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	return res.RowsAffected > 0, res.Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID string, cur *pagination.Cursor, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("follower_id = ?", followerID).
		Scopes(pagination.Scope(cur)).Limit(limit + 1).Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, followeeID string, cur *pagination.Cursor, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).Where("followee_id = ?", followeeID).
		Scopes(pagination.Scope(cur)).Limit(limit + 1).Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowerIDs(ctx context.Context, followeeID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("followee_id = ?", followeeID).
		Pluck("follower_id", &ids).Error
	return ids, err
}
