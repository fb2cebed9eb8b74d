package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/internal/repository"
)

// @name 引用，用户名限字母数字下划线；@ 前必须是行首或非用户名字符，邮箱地址不算提及
var mentionPattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9_])@([A-Za-z0-9_]{1,64})`)

// MentionService 提及抽取：解析正文里的 @ 引用，解析失败的 token 静默丢弃
type MentionService interface {
	// Sync 解析并过滤后整组替换目标的提及记录，返回命中的用户供扇出分层。
	// 编辑场景同样走这里：旧记录全删重建，不做增量 diff，也不撤回已发通知。
	Sync(ctx context.Context, authorID string, ref model.TargetRef, text string) ([]*model.User, error)
	DeleteForTarget(ctx context.Context, ref model.TargetRef) error
}

type mentionService struct {
	users    repository.UserRepository
	blocks   repository.BlockRepository
	mentions repository.MentionRepository
}

func NewMentionService(users repository.UserRepository, blocks repository.BlockRepository, mentions repository.MentionRepository) MentionService {
	return &mentionService{users: users, blocks: blocks, mentions: mentions}
}

func (s *mentionService) Sync(ctx context.Context, authorID string, ref model.TargetRef, text string) ([]*model.User, error) {
	resolved, err := s.extract(ctx, authorID, text)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resolved))
	for _, u := range resolved {
		ids = append(ids, u.ID)
	}
	if err := s.mentions.ReplaceForTarget(ctx, ref, ids); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *mentionService) DeleteForTarget(ctx context.Context, ref model.TargetRef) error {
	return s.mentions.DeleteForTarget(ctx, ref)
}

// extract 大小写不敏感地解析用户名；过滤作者本人与任一方向拉黑的用户
func (s *mentionService) extract(ctx context.Context, authorID, text string) ([]*model.User, error) {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(m[1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	users, err := s.users.GetByUsernames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	excludedList, err := s.blocks.ExcludedIDs(ctx, authorID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(excludedList))
	for _, id := range excludedList {
		excluded[id] = true
	}

	res := make([]*model.User, 0, len(users))
	for _, u := range users {
		if u.ID == authorID || excluded[u.ID] {
			continue
		}
		res = append(res, u)
	}
	return res, nil
}
