package model

import "time"

// Report 举报台账。snapshot 在创建时定格，之后目标怎么改都不再更新；
// open -> closed 单向一次性流转，closed_at / resolver_id / resolver_note 同时落地。
type Report struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)"`
	ReporterID   string     `gorm:"type:varchar(36);index:idx_report_reporter;not null"`
	TargetKind   TargetKind `gorm:"type:varchar(16);index:idx_report_target;not null"`
	TargetID     string     `gorm:"type:varchar(36);index:idx_report_target;not null"`
	Snapshot     string     `gorm:"type:text;not null"` // 创建时目标字段的 JSON 快照
	ReporterNote string     `gorm:"type:text"`
	ResolverID   *string    `gorm:"type:varchar(36)"`
	ResolverNote string     `gorm:"type:text"`
	ClosedAt     *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"index"`
}

func (Report) TableName() string { return "reports" }

func (r *Report) Open() bool { return r.ClosedAt == nil }

func (r *Report) CursorKey() (time.Time, string) { return r.CreatedAt, r.ID }
