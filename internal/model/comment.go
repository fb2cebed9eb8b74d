package model

import "time"

// Comment 评论
type Comment struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	PostID    string `gorm:"type:varchar(36);index:idx_comment_post;not null"`
	AuthorID  string `gorm:"type:varchar(36);index:idx_comment_author;not null"`
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) CursorKey() (time.Time, string) { return c.CreatedAt, c.ID }
