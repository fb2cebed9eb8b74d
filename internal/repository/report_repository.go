package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/pkg/pagination"
)

type ReportRepository interface {
	Create(ctx context.Context, rep *model.Report) error
	GetByID(ctx context.Context, id string) (*model.Report, error)
	// FindOpenByReporter 同一举报人对同一目标的未结举报（幂等去重用）
	FindOpenByReporter(ctx context.Context, reporterID string, ref model.TargetRef) (*model.Report, error)
	// ListOpenByTarget 同目标的其余未结举报
	ListOpenByTarget(ctx context.Context, ref model.TargetRef, excludeID string) ([]*model.Report, error)
	// Close 单条关闭；条件带 closed_at IS NULL，天然挡掉并发重复关闭
	Close(ctx context.Context, id, resolverID, note string, at time.Time) (bool, error)
	// CloseAllOpenForTarget 批量关闭：同目标所有未结举报一次性落同一时间戳/处理人/备注
	CloseAllOpenForTarget(ctx context.Context, ref model.TargetRef, resolverID, note string, at time.Time) (int64, error)
	OpenCount(ctx context.Context) (int64, error)
	List(ctx context.Context, openOnly bool, cur *pagination.Cursor, limit int) ([]*model.Report, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepository{db: db} }

func (r *reportRepository) Create(ctx context.Context, rep *model.Report) error {
	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*model.Report, error) {
	var rep model.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *reportRepository) FindOpenByReporter(ctx context.Context, reporterID string, ref model.TargetRef) (*model.Report, error) {
	var rep model.Report
	err := r.db.WithContext(ctx).
		Where("reporter_id = ? AND target_kind = ? AND target_id = ? AND closed_at IS NULL",
			reporterID, ref.Kind, ref.ID).
		First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *reportRepository) ListOpenByTarget(ctx context.Context, ref model.TargetRef, excludeID string) ([]*model.Report, error) {
	var res []*model.Report
	err := r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id = ? AND closed_at IS NULL AND id <> ?",
			ref.Kind, ref.ID, excludeID).
		Order("created_at DESC, id DESC").
		Find(&res).Error
	return res, err
}

func (r *reportRepository) Close(ctx context.Context, id, resolverID, note string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ? AND closed_at IS NULL", id).
		Updates(map[string]any{"closed_at": at, "resolver_id": resolverID, "resolver_note": note})
	return res.RowsAffected > 0, res.Error
}

func (r *reportRepository) CloseAllOpenForTarget(ctx context.Context, ref model.TargetRef, resolverID, note string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("target_kind = ? AND target_id = ? AND closed_at IS NULL", ref.Kind, ref.ID).
		Updates(map[string]any{"closed_at": at, "resolver_id": resolverID, "resolver_note": note})
	return res.RowsAffected, res.Error
}

func (r *reportRepository) OpenCount(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("closed_at IS NULL").
		Count(&cnt).Error
	return cnt, err
}

func (r *reportRepository) List(ctx context.Context, openOnly bool, cur *pagination.Cursor, limit int) ([]*model.Report, error) {
	q := r.db.WithContext(ctx).Model(&model.Report{})
	if openOnly {
		q = q.Where("closed_at IS NULL")
	}
	var res []*model.Report
	err := q.Scopes(pagination.Scope(cur)).Limit(limit + 1).Find(&res).Error
	return res, err
}
