package model

import "time"

// 通知类型
const (
	NotifyFollow  = "follow"
	NotifyPost    = "post"
	NotifyComment = "comment"
	NotifyMention = "mention"
)

// Notification 通知，仅追加；read_at 为唯一可变字段（null -> 时间戳）
type Notification struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"`
	RecipientID string     `gorm:"type:varchar(36);index:idx_notification_recipient;not null"`
	Kind        string     `gorm:"type:varchar(16);not null"`
	ActorID     string     `gorm:"type:varchar(36);not null"`
	TargetKind  TargetKind `gorm:"type:varchar(16)"`
	TargetID    string     `gorm:"type:varchar(36)"`
	ReadAt      *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"index:idx_notification_recipient"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) CursorKey() (time.Time, string) { return n.CreatedAt, n.ID }
