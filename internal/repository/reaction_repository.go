package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-core/internal/model"
)

// EmojiCount summary 聚合行
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}

type ReactionRepository interface {
	Get(ctx context.Context, userID string, ref model.TargetRef) (*model.Reaction, error)
	Create(ctx context.Context, userID string, ref model.TargetRef, emoji string) (bool, error)
	Delete(ctx context.Context, id string) error
	// UpdateEmoji 原地换表情，保留行身份，计数聚合不抖动
	UpdateEmoji(ctx context.Context, id, emoji string) error
	Summary(ctx context.Context, ref model.TargetRef) ([]EmojiCount, error)
	DeleteForTarget(ctx context.Context, ref model.TargetRef) error
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository { return &reactionRepository{db: db} }

func (r *reactionRepository) Get(ctx context.Context, userID string, ref model.TargetRef) (*model.Reaction, error) {
	var re model.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, ref.Kind, ref.ID).
		First(&re).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &re, nil
}

func (r *reactionRepository) Create(ctx context.Context, userID string, ref model.TargetRef, emoji string) (bool, error) {
	re := &model.Reaction{
		ID:         uuid.New().String(),
		UserID:     userID,
		TargetKind: ref.Kind,
		TargetID:   ref.ID,
		Emoji:      emoji,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(re)
	return res.RowsAffected > 0, res.Error
}

func (r *reactionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Reaction{}).Error
}

func (r *reactionRepository) UpdateEmoji(ctx context.Context, id, emoji string) error {
	return r.db.WithContext(ctx).Model(&model.Reaction{}).Where("id = ?", id).Update("emoji", emoji).Error
}

func (r *reactionRepository) Summary(ctx context.Context, ref model.TargetRef) ([]EmojiCount, error) {
	var rows []EmojiCount
	err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Select("emoji, COUNT(*) AS count").
		Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID).
		Group("emoji").
		Order("count DESC, emoji ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reactionRepository) DeleteForTarget(ctx context.Context, ref model.TargetRef) error {
	return r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ?", ref.Kind, ref.ID).
		Delete(&model.Reaction{}).Error
}
