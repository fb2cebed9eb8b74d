package model

import "time"

// Mention 提及记录，随所属内容编辑整组替换、随内容删除级联消亡
type Mention struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `gorm:"type:varchar(36);index:idx_mention_pair,unique;not null"` // 被提及者
	TargetKind TargetKind `gorm:"type:varchar(16);index:idx_mention_pair,unique;index:idx_mention_target;not null"`
	TargetID   string     `gorm:"type:varchar(36);index:idx_mention_pair,unique;index:idx_mention_target;not null"`
	CreatedAt  time.Time
}

func (Mention) TableName() string { return "mentions" }
