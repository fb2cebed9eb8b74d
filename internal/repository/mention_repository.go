package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-core/internal/model"
)

type MentionRepository interface {
	// ReplaceForTarget 整组替换：先删旧、再插新，一个事务内完成
	ReplaceForTarget(ctx context.Context, ref model.TargetRef, userIDs []string) error
	ListForTarget(ctx context.Context, ref model.TargetRef) ([]*model.Mention, error)
	DeleteForTarget(ctx context.Context, ref model.TargetRef) error
}

type mentionRepository struct {
	db *gorm.DB
}

func NewMentionRepository(db *gorm.DB) MentionRepository { return &mentionRepository{db: db} }

func (r *mentionRepository) ReplaceForTarget(ctx context.Context, ref model.TargetRef, userIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID).
			Delete(&model.Mention{}).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		rows := make([]model.Mention, 0, len(userIDs))
		for _, uid := range userIDs {
			rows = append(rows, model.Mention{
				ID:         uuid.New().String(),
				UserID:     uid,
				TargetKind: ref.Kind,
				TargetID:   ref.ID,
			})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
}

func (r *mentionRepository) ListForTarget(ctx context.Context, ref model.TargetRef) ([]*model.Mention, error) {
	var res []*model.Mention
	err := r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID).
		Find(&res).Error
	return res, err
}

func (r *mentionRepository) DeleteForTarget(ctx context.Context, ref model.TargetRef) error {
	return r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID).
		Delete(&model.Mention{}).Error
}
