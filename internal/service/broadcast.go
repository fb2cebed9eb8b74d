package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// 推送事件名与频道，与前端计数条约定一致
const (
	EventUnreadCount    = "UnreadNotificationsCountUpdated"
	EventPendingReports = "PendingReportsCountUpdated"

	channelModReports = "mod:reports"
)

func userCounterChannel(userID string) string { return fmt.Sprintf("user:%s:counters", userID) }

// Broadcaster 实时推送抽象：核心只依赖 publish 语义，不绑定具体推送技术
type Broadcaster interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

type redisBroadcaster struct {
	rdb *redis.Client
}

func NewRedisBroadcaster(rdb *redis.Client) Broadcaster { return &redisBroadcaster{rdb: rdb} }

type eventEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

func (b *redisBroadcaster) Publish(ctx context.Context, channel, event string, payload any) error {
	raw, err := json.Marshal(eventEnvelope{Event: event, Payload: payload})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, channel, raw).Err()
}
