package model

import "time"

const (
	RoleUser      = "user"
	RoleModerator = "mod"
	RoleAdmin     = "admin"
)

// User 用户（role 决定审核能力）
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Username  string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email     string `gorm:"type:varchar(128);uniqueIndex;not null"`
	Password  string `gorm:"type:varchar(128);not null"`
	Role      string `gorm:"type:varchar(16);not null;default:user"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }

// IsStaff 版主/管理员：可处理举报，且不可拉黑也不可被拉黑
func (u *User) IsStaff() bool { return u.Role == RoleModerator || u.Role == RoleAdmin }
