package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/internal/repository"
	"github.com/d60-Lab/social-core/pkg/pagination"
)

var (
	ErrReportSelf       = errors.New("cannot report yourself")
	ErrReportOwnContent = errors.New("cannot report your own content")
	ErrAlreadyClosed    = errors.New("report already closed")
)

// CreateReportOutcome Created=false 表示命中幂等去重（同人同目标已有未结举报）
type CreateReportOutcome struct {
	Report  *model.Report
	Created bool
}

// CloseReportOutcome 关闭结果；ClosedCount 含本条
type CloseReportOutcome struct {
	Report      *model.Report
	ClosedCount int64
}

// ReportDetail 审核视图：existence 现场探测，快照始终可用
type ReportDetail struct {
	Report           *model.Report
	ReportableExists bool
	RelatedOpen      []*model.Report
}

// ReportService 举报台账：不可变快照 + open/closed 单向流转
type ReportService interface {
	Create(ctx context.Context, reporterID string, ref model.TargetRef, note string) (*CreateReportOutcome, error)
	Close(ctx context.Context, reportID, resolverID, note string, closeAll bool) (*CloseReportOutcome, error)
	Get(ctx context.Context, reportID string) (*ReportDetail, error)
	List(ctx context.Context, openOnly bool, cur *pagination.Cursor, limit int) (pagination.Page[*model.Report], error)
}

type reportService struct {
	reports  repository.ReportRepository
	content  ContentService
	counters *CounterBridge
}

func NewReportService(reports repository.ReportRepository, content ContentService, counters *CounterBridge) ReportService {
	return &reportService{reports: reports, content: content, counters: counters}
}

func (s *reportService) Create(ctx context.Context, reporterID string, ref model.TargetRef, note string) (*CreateReportOutcome, error) {
	target, err := s.content.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !target.Exists {
		// 校验与取快照之间目标消失也落在这条路径上
		return nil, ErrTargetNotFound
	}
	if ref.Kind == model.TargetUser && ref.ID == reporterID {
		return nil, ErrReportSelf
	}
	if ref.Kind != model.TargetUser && target.OwnerID == reporterID {
		return nil, ErrReportOwnContent
	}

	// 同人同目标已有未结举报：幂等 no-op，不算错误
	if existing, err := s.reports.FindOpenByReporter(ctx, reporterID, ref); err != nil {
		return nil, err
	} else if existing != nil {
		return &CreateReportOutcome{Report: existing, Created: false}, nil
	}

	raw, err := json.Marshal(target.Snapshot)
	if err != nil {
		return nil, err
	}
	rep := &model.Report{
		ReporterID:   reporterID,
		TargetKind:   ref.Kind,
		TargetID:     ref.ID,
		Snapshot:     string(raw),
		ReporterNote: note,
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	s.counters.EnqueuePendingReports()
	return &CreateReportOutcome{Report: rep, Created: true}, nil
}

func (s *reportService) Close(ctx context.Context, reportID, resolverID, note string, closeAll bool) (*CloseReportOutcome, error) {
	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !rep.Open() {
		return nil, ErrAlreadyClosed
	}

	now := time.Now()
	var closed int64
	if closeAll {
		// 同目标所有未结举报一次 UPDATE 落同一时间戳/处理人/备注
		ref := model.TargetRef{Kind: rep.TargetKind, ID: rep.TargetID}
		closed, err = s.reports.CloseAllOpenForTarget(ctx, ref, resolverID, note, now)
		if err != nil {
			return nil, err
		}
	} else {
		ok, err := s.reports.Close(ctx, reportID, resolverID, note, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			// 并发已关：与先检查一样按重复关闭处理
			return nil, ErrAlreadyClosed
		}
		closed = 1
	}

	updated, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	s.counters.EnqueuePendingReports()
	return &CloseReportOutcome{Report: updated, ClosedCount: closed}, nil
}

func (s *reportService) Get(ctx context.Context, reportID string) (*ReportDetail, error) {
	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	ref := model.TargetRef{Kind: rep.TargetKind, ID: rep.TargetID}
	target, err := s.content.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	detail := &ReportDetail{Report: rep, ReportableExists: target.Exists}
	// 关联举报只在本条未结时呈现
	if rep.Open() {
		related, err := s.reports.ListOpenByTarget(ctx, ref, rep.ID)
		if err != nil {
			return nil, err
		}
		detail.RelatedOpen = related
	}
	return detail, nil
}

func (s *reportService) List(ctx context.Context, openOnly bool, cur *pagination.Cursor, limit int) (pagination.Page[*model.Report], error) {
	limit = pagination.ClampLimit(limit)
	rows, err := s.reports.List(ctx, openOnly, cur, limit)
	if err != nil {
		return pagination.Page[*model.Report]{}, err
	}
	return pagination.BuildPage(rows, limit, cur), nil
}
