package service

import (
	"context"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/internal/repository"
)

// EmojiSummary summary 输出行；ReactedByUser 无查看者上下文时为 null
type EmojiSummary struct {
	Emoji         string `json:"emoji"`
	Count         int64  `json:"count"`
	ReactedByUser *bool  `json:"reacted_by_user"`
}

// ReactionService 单人单目标单回应的 toggle 语义
type ReactionService interface {
	Toggle(ctx context.Context, userID string, ref model.TargetRef, emoji string) (ToggleResult, error)
	Summary(ctx context.Context, ref model.TargetRef, viewerID string) ([]EmojiSummary, error)
}

type reactionService struct {
	reactions repository.ReactionRepository
}

func NewReactionService(reactions repository.ReactionRepository) ReactionService {
	return &reactionService{reactions: reactions}
}

func (s *reactionService) Toggle(ctx context.Context, userID string, ref model.TargetRef, emoji string) (ToggleResult, error) {
	existing, err := s.reactions.Get(ctx, userID, ref)
	if err != nil {
		return "", err
	}
	if existing == nil {
		// 并发重复 toggle 由 (user, target) 唯一键裁决，冲突方静默归于赢家的终态
		if _, err := s.reactions.Create(ctx, userID, ref, emoji); err != nil {
			return "", err
		}
		return ResultCreated, nil
	}
	if existing.Emoji == emoji {
		if err := s.reactions.Delete(ctx, existing.ID); err != nil {
			return "", err
		}
		return ResultRemoved, nil
	}
	// 换表情原地更新，保留行身份，计数聚合不抖动
	if err := s.reactions.UpdateEmoji(ctx, existing.ID, emoji); err != nil {
		return "", err
	}
	return ResultReplaced, nil
}

func (s *reactionService) Summary(ctx context.Context, ref model.TargetRef, viewerID string) ([]EmojiSummary, error) {
	rows, err := s.reactions.Summary(ctx, ref)
	if err != nil {
		return nil, err
	}

	var viewerEmoji string
	hasViewer := viewerID != ""
	if hasViewer {
		re, err := s.reactions.Get(ctx, viewerID, ref)
		if err != nil {
			return nil, err
		}
		if re != nil {
			viewerEmoji = re.Emoji
		}
	}

	res := make([]EmojiSummary, 0, len(rows))
	for _, row := range rows {
		item := EmojiSummary{Emoji: row.Emoji, Count: row.Count}
		if hasViewer {
			reacted := row.Emoji == viewerEmoji
			item.ReactedByUser = &reacted
		}
		res = append(res, item)
	}
	return res, nil
}
