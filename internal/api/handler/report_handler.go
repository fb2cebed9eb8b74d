package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-core/internal/api/middleware"
	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/pkg/response"
)

type createReportRequest struct {
	Kind     string `json:"kind" binding:"required,targetkind"`
	TargetID string `json:"target_id" binding:"required"`
	Note     string `json:"note" binding:"max=2000"`
}

type closeReportRequest struct {
	Note     string `json:"note" binding:"max=2000"`
	CloseAll bool   `json:"close_all"`
}

// CreateReport 创建举报（快照在此刻定格）
// @Summary 举报内容或用户
// @Tags 举报
// @Accept json
// @Produce json
// @Param request body createReportRequest true "举报目标"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	ref := model.TargetRef{Kind: model.TargetKind(req.Kind), ID: req.TargetID}
	outcome, err := h.reports.Create(c.Request.Context(), actorID, ref, req.Note)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"report_id": outcome.Report.ID, "created": outcome.Created})
}

// CloseReport 关闭举报（可连带同目标全部未结举报）
// @Summary 关闭举报
// @Tags 举报
// @Accept json
// @Produce json
// @Param id path string true "举报ID"
// @Param request body closeReportRequest true "处理备注"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/reports/{id}/close [post]
func (h *Handler) CloseReport(c *gin.Context) {
	var req closeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	outcome, err := h.reports.Close(c.Request.Context(), c.Param("id"), actorID, req.Note, req.CloseAll)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"report": outcome.Report, "closed_count": outcome.ClosedCount})
}

// GetReport 举报详情：快照 + 现场存在性 + 关联未结举报
// @Summary 举报详情
// @Tags 举报
// @Param id path string true "举报ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reports/{id} [get]
func (h *Handler) GetReport(c *gin.Context) {
	detail, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{
		"report":            detail.Report,
		"reportable_exists": detail.ReportableExists,
		"related_open":      detail.RelatedOpen,
	})
}

// ListReports 举报列表（游标分页）
// @Summary 举报列表
// @Tags 举报
// @Param status query string false "open 或 all" default(open)
// @Param cursor query string false "游标"
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	cur, limit, err := parseCursor(c)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	openOnly := c.DefaultQuery("status", "open") == "open"
	page, err := h.reports.List(c.Request.Context(), openOnly, cur, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, page)
}
