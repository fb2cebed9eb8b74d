// Package pagination implements opaque keyset cursors for list endpoints.
//
// Ordering is always (created_at DESC, id DESC); the id tiebreak keeps the
// sort stable under concurrent inserts sharing a timestamp, so a forward then
// backward traversal of an unmodified list never duplicates or skips items.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrBadCursor = errors.New("malformed cursor")

// Cursor 游标：定位 (created_at, id)，Back 表示向较新方向翻页
type Cursor struct {
	T    time.Time `json:"t"`
	ID   string    `json:"id"`
	Back bool      `json:"b,omitempty"`
}

// Encode serializes the cursor into an opaque URL-safe token.
func Encode(c Cursor) string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token produced by Encode. Empty token means first page.
func Decode(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrBadCursor
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrBadCursor
	}
	if c.ID == "" {
		return nil, ErrBadCursor
	}
	return &c, nil
}

// ClampLimit 页大小兜底
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Scope returns a gorm scope applying the cursor's keyset condition and
// ordering. Callers fetch limit+1 rows and hand them to BuildPage.
// Row-value comparison is spelled out for sqlite compatibility.
func Scope(cur *Cursor) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if cur == nil {
			return q.Order("created_at DESC, id DESC")
		}
		if cur.Back {
			return q.
				Where("created_at > ? OR (created_at = ? AND id > ?)", cur.T, cur.T, cur.ID).
				Order("created_at ASC, id ASC")
		}
		return q.
			Where("created_at < ? OR (created_at = ? AND id < ?)", cur.T, cur.T, cur.ID).
			Order("created_at DESC, id DESC")
	}
}

// Keyed 可分页条目：暴露自身的游标键
type Keyed interface {
	CursorKey() (time.Time, string)
}

// Page 一页结果与前后游标（无更多页时为 nil）
type Page[T Keyed] struct {
	Items []T      `json:"items"`
	Next  *string  `json:"next_cursor"`
	Prev  *string  `json:"prev_cursor"`
}

// BuildPage trims a limit+1 query result into a page and computes the
// next/prev tokens. For a Back cursor the input rows are expected in the
// ASC order the Scope query produced; they are flipped back to DESC here.
func BuildPage[T Keyed](items []T, limit int, cur *Cursor) Page[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	backward := cur != nil && cur.Back
	if backward {
		reverse(items)
	}

	page := Page[T]{Items: items}
	if len(items) == 0 {
		return page
	}

	firstT, firstID := items[0].CursorKey()
	lastT, lastID := items[len(items)-1].CursorKey()

	if backward {
		// 向新翻页：next 必存在（来路），prev 取决于是否还有更新条目
		next := Encode(Cursor{T: lastT, ID: lastID})
		page.Next = &next
		if hasMore {
			prev := Encode(Cursor{T: firstT, ID: firstID, Back: true})
			page.Prev = &prev
		}
		return page
	}

	if hasMore {
		next := Encode(Cursor{T: lastT, ID: lastID})
		page.Next = &next
	}
	if cur != nil {
		prev := Encode(Cursor{T: firstT, ID: firstID, Back: true})
		page.Prev = &prev
	}
	return page
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
