package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/pkg/pagination"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ListByRecipient keyset 分页，limit+1 行交给 pagination.BuildPage
	ListByRecipient(ctx context.Context, recipientID string, cur *pagination.Cursor, limit int) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, cur *pagination.Cursor, limit int) ([]*model.Notification, error) {
	var res []*model.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Scopes(pagination.Scope(cur)).
		Limit(limit + 1).
		Find(&res).Error
	return res, err
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&cnt).Error
	return cnt, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", id, recipientID).
		Update("read_at", now)
	return res.RowsAffected > 0, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", time.Now()).Error
}
