package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-core/internal/model"
)

func TestCounterBridge_PushesUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", model.RoleUser)
	bob := env.seedUser(t, "bob", model.RoleUser)

	stop := env.bridge.Start(1)
	defer func() { _ = stop(context.Background()) }()

	env.notificationSvc.NotifyFollowed(ctx, bob.ID, alice.ID)
	env.notificationSvc.NotifyFollowed(ctx, bob.ID, alice.ID)

	require.Eventually(t, func() bool {
		for _, ev := range env.broadcaster.snapshot() {
			if ev.Event == EventUnreadCount && ev.Channel == userCounterChannel(alice.ID) {
				payload := ev.Payload.(map[string]any)
				return payload["user_id"] == alice.ID && payload["unread_count"] == int64(2)
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond, "expected unread count push for alice")
}

func TestCounterBridge_PushesPendingReportCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.seedUser(t, "author", model.RoleUser)
	reporter := env.seedUser(t, "reporter", model.RoleUser)

	stop := env.bridge.Start(1)
	defer func() { _ = stop(context.Background()) }()

	post, err := env.contentSvc.CreatePost(ctx, author.ID, "text")
	require.NoError(t, err)
	_, err = env.reportSvc.Create(ctx, reporter.ID, model.TargetRef{Kind: model.TargetPost, ID: post.ID}, "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, ev := range env.broadcaster.snapshot() {
			if ev.Event == EventPendingReports && ev.Channel == "mod:reports" {
				payload := ev.Payload.(map[string]any)
				return payload["pending_count"] == int64(1)
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond, "expected pending report push")
}

func TestCounterBridge_DropsWhenQueueFull(t *testing.T) {
	env := newTestEnv(t)
	bridge := NewCounterBridge(env.notifications, env.reports, env.broadcaster, 2)

	// 未启动 worker：第三条直接丢弃，不阻塞调用方
	bridge.EnqueueUnread("u1")
	bridge.EnqueueUnread("u2")
	bridge.EnqueueUnread("u3")
	assert.Equal(t, 2, bridge.QueueLen())
}
