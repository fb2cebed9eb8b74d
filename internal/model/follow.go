package model

import "time"

// Follow 关注关系（A 关注 B），与任一方向的拉黑互斥
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;index:idx_follow_pair,unique;not null"`
	FolloweeID string `gorm:"type:varchar(36);not null;index:idx_follow_followee;index:idx_follow_pair,unique"`
	// idx_follow_pair = (follower_id, followee_id)
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Follow) TableName() string { return "follows" }

func (f *Follow) CursorKey() (time.Time, string) { return f.CreatedAt, f.ID }

// All 全量模型清单，启动时 AutoMigrate 用
func All() []any {
	return []any{
		&User{}, &Follow{}, &Block{}, &Reaction{}, &Mention{},
		&Notification{}, &Report{}, &Post{}, &Comment{},
	}
}
