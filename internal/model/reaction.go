package model

import "time"

// Reaction 表情回应，(user, target) 任意时刻至多一行
type Reaction struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `gorm:"type:varchar(36);index:idx_reaction_owner,unique;not null"`
	TargetKind TargetKind `gorm:"type:varchar(16);index:idx_reaction_owner,unique;index:idx_reaction_target;not null"`
	TargetID   string     `gorm:"type:varchar(36);index:idx_reaction_owner,unique;index:idx_reaction_target;not null"`
	// idx_reaction_owner = (user_id, target_kind, target_id)：并发重复 toggle 的唯一并发护栏
	Emoji     string `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Reaction) TableName() string { return "reactions" }
