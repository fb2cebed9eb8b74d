package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/internal/repository"
	"github.com/d60-Lab/social-core/pkg/logger"
	"github.com/d60-Lab/social-core/pkg/pagination"
)

// NotificationService 通知扇出与查询。
// 扇出在内容写入提交后执行，失败只记日志不回滚内容操作：
// 通知行是权威记录，实时推送只是补充。
type NotificationService interface {
	// FanoutComment 三层瀑布：提及 > 帖子作者 > 其余历史评论者，逐层累积去重
	FanoutComment(ctx context.Context, comment *model.Comment, post *model.Post, mentioned []*model.User)
	// FanoutPost 两层：提及 > 作者粉丝
	FanoutPost(ctx context.Context, post *model.Post, mentioned []*model.User)
	// NotifyFollowed 只在关注建边时触发，取关不触发
	NotifyFollowed(ctx context.Context, actorID, recipientID string)

	List(ctx context.Context, recipientID string, cur *pagination.Cursor, limit int) (pagination.Page[*model.Notification], error)
	MarkRead(ctx context.Context, recipientID, id string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	comments      repository.CommentRepository
	follows       repository.FollowRepository
	blocks        repository.BlockRepository
	counters      *CounterBridge
}

func NewNotificationService(notifications repository.NotificationRepository, comments repository.CommentRepository, follows repository.FollowRepository, blocks repository.BlockRepository, counters *CounterBridge) NotificationService {
	return &notificationService{notifications: notifications, comments: comments, follows: follows, blocks: blocks, counters: counters}
}

func (s *notificationService) FanoutComment(ctx context.Context, comment *model.Comment, post *model.Post, mentioned []*model.User) {
	// 同一事件内每人至多收一条；跨事件彼此独立
	notified := map[string]bool{comment.AuthorID: true}

	// 第一层：提及（提及解析阶段已按拉黑过滤）
	for _, u := range mentioned {
		if notified[u.ID] {
			continue
		}
		notified[u.ID] = true
		s.persist(ctx, &model.Notification{
			RecipientID: u.ID,
			Kind:        model.NotifyMention,
			ActorID:     comment.AuthorID,
			TargetKind:  model.TargetComment,
			TargetID:    comment.ID,
		})
	}

	// 通知不得跨越拉黑边界，第二、三层共用同一排除集
	excludedList, err := s.blocks.ExcludedIDs(ctx, comment.AuthorID)
	if err != nil {
		logger.Warn("fanout: excluded ids failed", zap.String("actor", comment.AuthorID), zap.Error(err))
		return
	}
	excluded := make(map[string]bool, len(excludedList))
	for _, id := range excludedList {
		excluded[id] = true
	}

	// 第二层：帖子作者
	if !notified[post.AuthorID] && !excluded[post.AuthorID] {
		notified[post.AuthorID] = true
		s.persist(ctx, &model.Notification{
			RecipientID: post.AuthorID,
			Kind:        model.NotifyComment,
			ActorID:     comment.AuthorID,
			TargetKind:  model.TargetComment,
			TargetID:    comment.ID,
		})
	}

	// 第三层：其余历史评论者
	commenterIDs, err := s.comments.DistinctCommenterIDs(ctx, post.ID)
	if err != nil {
		logger.Warn("fanout: list commenters failed", zap.String("post", post.ID), zap.Error(err))
		return
	}
	for _, id := range commenterIDs {
		if notified[id] || excluded[id] {
			continue
		}
		notified[id] = true
		s.persist(ctx, &model.Notification{
			RecipientID: id,
			Kind:        model.NotifyComment,
			ActorID:     comment.AuthorID,
			TargetKind:  model.TargetComment,
			TargetID:    comment.ID,
		})
	}
}

func (s *notificationService) FanoutPost(ctx context.Context, post *model.Post, mentioned []*model.User) {
	notified := map[string]bool{post.AuthorID: true}
	for _, u := range mentioned {
		if notified[u.ID] {
			continue
		}
		notified[u.ID] = true
		s.persist(ctx, &model.Notification{
			RecipientID: u.ID,
			Kind:        model.NotifyMention,
			ActorID:     post.AuthorID,
			TargetKind:  model.TargetPost,
			TargetID:    post.ID,
		})
	}

	// 第二层：作者的粉丝收新帖通知。关注边与拉黑互斥，这一层天然不越界
	followerIDs, err := s.follows.ListFollowerIDs(ctx, post.AuthorID)
	if err != nil {
		logger.Warn("fanout: list followers failed", zap.String("author", post.AuthorID), zap.Error(err))
		return
	}
	for _, id := range followerIDs {
		if notified[id] {
			continue
		}
		notified[id] = true
		s.persist(ctx, &model.Notification{
			RecipientID: id,
			Kind:        model.NotifyPost,
			ActorID:     post.AuthorID,
			TargetKind:  model.TargetPost,
			TargetID:    post.ID,
		})
	}
}

func (s *notificationService) NotifyFollowed(ctx context.Context, actorID, recipientID string) {
	s.persist(ctx, &model.Notification{
		RecipientID: recipientID,
		Kind:        model.NotifyFollow,
		ActorID:     actorID,
		TargetKind:  model.TargetUser,
		TargetID:    actorID,
	})
}

// persist 落库即送达；推送只是计数补充，入队后就不管了
func (s *notificationService) persist(ctx context.Context, n *model.Notification) {
	if err := s.notifications.Create(ctx, n); err != nil {
		logger.Warn("fanout: create notification failed",
			zap.String("recipient", n.RecipientID), zap.String("kind", n.Kind), zap.Error(err))
		return
	}
	s.counters.EnqueueUnread(n.RecipientID)
}

func (s *notificationService) List(ctx context.Context, recipientID string, cur *pagination.Cursor, limit int) (pagination.Page[*model.Notification], error) {
	limit = pagination.ClampLimit(limit)
	rows, err := s.notifications.ListByRecipient(ctx, recipientID, cur, limit)
	if err != nil {
		return pagination.Page[*model.Notification]{}, err
	}
	return pagination.BuildPage(rows, limit, cur), nil
}

func (s *notificationService) MarkRead(ctx context.Context, recipientID, id string) (bool, error) {
	ok, err := s.notifications.MarkRead(ctx, id, recipientID)
	if err != nil {
		return false, err
	}
	if ok {
		s.counters.EnqueueUnread(recipientID)
	}
	return ok, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	if err := s.notifications.MarkAllRead(ctx, recipientID); err != nil {
		return err
	}
	s.counters.EnqueueUnread(recipientID)
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.notifications.UnreadCount(ctx, recipientID)
}
