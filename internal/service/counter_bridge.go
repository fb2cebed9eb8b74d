package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/social-core/internal/repository"
	"github.com/d60-Lab/social-core/pkg/logger"
)

type counterKind int

const (
	counterUnread counterKind = iota + 1
	counterPendingReports
)

type counterJob struct {
	kind   counterKind
	userID string
}

// CounterBridge 实时计数桥：异步把未读数 / 待处理举报数推给在线客户端。
// 尽力而为——队列满直接丢弃，客户端下次整页加载会拿到权威值。
type CounterBridge struct {
	notifications repository.NotificationRepository
	reports       repository.ReportRepository
	broadcaster   Broadcaster
	ch            chan counterJob
}

func NewCounterBridge(notifications repository.NotificationRepository, reports repository.ReportRepository, broadcaster Broadcaster, queueSize int) *CounterBridge {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &CounterBridge{
		notifications: notifications,
		reports:       reports,
		broadcaster:   broadcaster,
		ch:            make(chan counterJob, queueSize),
	}
}

// Start 启动若干 worker 消费计数任务；返回停止函数。
func (b *CounterBridge) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-b.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					b.process(ctx, job)
					cancel()
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(b.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (b *CounterBridge) process(ctx context.Context, job counterJob) {
	switch job.kind {
	case counterUnread:
		count, err := b.notifications.UnreadCount(ctx, job.userID)
		if err != nil {
			logger.Warn("counter bridge: unread count query failed", zap.String("user", job.userID), zap.Error(err))
			return
		}
		payload := map[string]any{"user_id": job.userID, "unread_count": count}
		if err := b.broadcaster.Publish(ctx, userCounterChannel(job.userID), EventUnreadCount, payload); err != nil {
			logger.Warn("counter bridge: publish failed", zap.String("user", job.userID), zap.Error(err))
		}
	case counterPendingReports:
		count, err := b.reports.OpenCount(ctx)
		if err != nil {
			logger.Warn("counter bridge: open report count query failed", zap.Error(err))
			return
		}
		payload := map[string]any{"pending_count": count}
		if err := b.broadcaster.Publish(ctx, channelModReports, EventPendingReports, payload); err != nil {
			logger.Warn("counter bridge: publish failed", zap.Error(err))
		}
	}
}

// EnqueueUnread 入队某用户的未读数推送（非阻塞，满则丢）
func (b *CounterBridge) EnqueueUnread(userID string) {
	select {
	case b.ch <- counterJob{kind: counterUnread, userID: userID}:
	default:
		logger.Warn("counter bridge queue full, drop unread push", zap.String("user", userID))
	}
}

// EnqueuePendingReports 入队待处理举报数推送
func (b *CounterBridge) EnqueuePendingReports() {
	select {
	case b.ch <- counterJob{kind: counterPendingReports}:
	default:
		logger.Warn("counter bridge queue full, drop report push")
	}
}

// QueueLen 返回当前队列长度（采样值）。
func (b *CounterBridge) QueueLen() int { return len(b.ch) }
