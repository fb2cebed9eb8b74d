package model

import "time"

// Post 内容主体
type Post struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string `gorm:"type:varchar(36);index:idx_post_author;not null"`
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Post) TableName() string { return "posts" }

func (p *Post) CursorKey() (time.Time, string) { return p.CreatedAt, p.ID }
