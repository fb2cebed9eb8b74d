package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/internal/repository"
	"github.com/d60-Lab/social-core/pkg/pagination"
)

var (
	ErrFollowSelf          = errors.New("cannot follow self")
	ErrBlockSelf           = errors.New("cannot block self")
	ErrUserNotFound        = errors.New("user not found")
	ErrBlockedRelationship = errors.New("relationship is blocked")
	ErrModeratorImmune     = errors.New("moderators cannot block or be blocked")
	ErrAlreadyBlockedBy    = errors.New("target has already blocked you")
)

// RelationshipService 关系链服务：关注/拉黑 toggle 与可见性排除集
type RelationshipService interface {
	ToggleFollow(ctx context.Context, actorID, targetUsername string) (ToggleResult, error)
	ToggleBlock(ctx context.Context, actorID, targetID string) (ToggleResult, error)
	// ExcludedIDs 我拉黑的 ∪ 拉黑我的
	ExcludedIDs(ctx context.Context, userID string) ([]string, error)
	ListFollowing(ctx context.Context, userID string, cur *pagination.Cursor, limit int) (pagination.Page[*model.Follow], error)
	ListFollowers(ctx context.Context, userID string, cur *pagination.Cursor, limit int) (pagination.Page[*model.Follow], error)
}

type relationshipService struct {
	db       *gorm.DB
	users    repository.UserRepository
	follows  repository.FollowRepository
	blocks   repository.BlockRepository
	notifier NotificationService
}

func NewRelationshipService(db *gorm.DB, users repository.UserRepository, follows repository.FollowRepository, blocks repository.BlockRepository, notifier NotificationService) RelationshipService {
	return &relationshipService{db: db, users: users, follows: follows, blocks: blocks, notifier: notifier}
}

func (s *relationshipService) ToggleFollow(ctx context.Context, actorID, targetUsername string) (ToggleResult, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", ErrUserNotFound
	}
	if target.ID == actorID {
		return "", ErrFollowSelf
	}

	blocked, err := s.blocks.ExistsBetween(ctx, actorID, target.ID)
	if err != nil {
		return "", err
	}
	if blocked {
		return "", ErrBlockedRelationship
	}

	removed, err := s.follows.Delete(ctx, actorID, target.ID)
	if err != nil {
		return "", err
	}
	if removed {
		// 取关不通知
		return ResultRemoved, nil
	}

	// 并发重复请求靠唯一键兜底：冲突方与赢家归于同一终态，都按 created 返回
	inserted, err := s.follows.Create(ctx, actorID, target.ID)
	if err != nil {
		return "", err
	}
	// 仅真正插入的那一方通知被关注者，输掉竞态的重复请求不重发
	if inserted {
		s.notifier.NotifyFollowed(ctx, actorID, target.ID)
	}
	return ResultCreated, nil
}

func (s *relationshipService) ToggleBlock(ctx context.Context, actorID, targetID string) (ToggleResult, error) {
	if actorID == targetID {
		return "", ErrBlockSelf
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return "", err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	// 版主/管理员既不能拉黑也不能被拉黑
	if actor.IsStaff() || target.IsStaff() {
		return "", ErrModeratorImmune
	}

	removed, err := s.blocks.Delete(ctx, actorID, targetID)
	if err != nil {
		return "", err
	}
	if removed {
		// 解除拉黑不恢复既往关注
		return ResultUnblocked, nil
	}

	blockedBy, err := s.blocks.Exists(ctx, targetID, actorID)
	if err != nil {
		return "", err
	}
	if blockedBy {
		return "", ErrAlreadyBlockedBy
	}

	// 建拉黑边与双向取关必须同一事务落地，半套应用即一致性缺陷
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b := &model.Block{ID: uuid.New().String(), BlockerID: actorID, BlockedID: targetID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(b).Error; err != nil {
			return err
		}
		return tx.
			Where("(follower_id = ? AND followee_id = ?) OR (follower_id = ? AND followee_id = ?)",
				actorID, targetID, targetID, actorID).
			Delete(&model.Follow{}).Error
	})
	if err != nil {
		return "", err
	}
	return ResultBlocked, nil
}

func (s *relationshipService) ExcludedIDs(ctx context.Context, userID string) ([]string, error) {
	return s.blocks.ExcludedIDs(ctx, userID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, cur *pagination.Cursor, limit int) (pagination.Page[*model.Follow], error) {
	limit = pagination.ClampLimit(limit)
	rows, err := s.follows.ListFollowings(ctx, userID, cur, limit)
	if err != nil {
		return pagination.Page[*model.Follow]{}, err
	}
	return pagination.BuildPage(rows, limit, cur), nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, cur *pagination.Cursor, limit int) (pagination.Page[*model.Follow], error) {
	limit = pagination.ClampLimit(limit)
	rows, err := s.follows.ListFollowers(ctx, userID, cur, limit)
	if err != nil {
		return pagination.Page[*model.Follow]{}, err
	}
	return pagination.BuildPage(rows, limit, cur), nil
}
