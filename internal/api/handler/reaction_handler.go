package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-core/internal/api/middleware"
	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/pkg/response"
)

type toggleReactionRequest struct {
	Kind     string `json:"kind" binding:"required,targetkind"`
	TargetID string `json:"target_id" binding:"required"`
	Emoji    string `json:"emoji" binding:"required,max=16"`
}

// ToggleReaction 回应 toggle
// @Summary 添加/移除/替换表情回应
// @Tags 回应
// @Accept json
// @Produce json
// @Param request body toggleReactionRequest true "目标与表情"
// @Success 200 {object} response.Response
// @Router /api/v1/reactions/toggle [post]
func (h *Handler) ToggleReaction(c *gin.Context) {
	var req toggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	ref := model.TargetRef{Kind: model.TargetKind(req.Kind), ID: req.TargetID}
	res, err := h.reactions.Toggle(c.Request.Context(), actorID, ref, req.Emoji)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"status": res})
}

// ReactionSummary 回应聚合
// @Summary 按表情聚合目标的回应计数
// @Tags 回应
// @Param kind query string true "目标类型" Enums(post, comment, user)
// @Param target_id query string true "目标ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reactions/summary [get]
func (h *Handler) ReactionSummary(c *gin.Context) {
	ref := model.TargetRef{Kind: model.TargetKind(c.Query("kind")), ID: c.Query("target_id")}
	if !ref.Valid() {
		response.BadRequest(c, "invalid target reference")
		return
	}
	// 未认证请求没有查看者上下文，reacted_by_user 为 null
	viewerID, _ := middleware.CurrentActor(c)
	rows, err := h.reactions.Summary(c.Request.Context(), ref, viewerID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"summary": rows})
}
