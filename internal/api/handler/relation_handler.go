package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-core/internal/api/middleware"
	"github.com/d60-Lab/social-core/pkg/response"
)

type toggleFollowRequest struct {
	Username string `json:"username" binding:"required"`
}

type toggleBlockRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ToggleFollow 关注/取关
// @Summary 关注或取关用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body toggleFollowRequest true "目标用户名"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) ToggleFollow(c *gin.Context) {
	var req toggleFollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	res, err := h.relations.ToggleFollow(c.Request.Context(), actorID, req.Username)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"status": res})
}

// ToggleBlock 拉黑/解除拉黑
// @Summary 拉黑或解除拉黑用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body toggleBlockRequest true "目标用户ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/relations/block [post]
func (h *Handler) ToggleBlock(c *gin.Context) {
	var req toggleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	res, err := h.relations.ToggleBlock(c.Request.Context(), actorID, req.UserID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"status": res})
}

// ListFollowing 查询某用户关注的人（游标分页）
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param cursor query string false "游标"
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	cur, limit, err := parseCursor(c)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	page, err := h.relations.ListFollowing(c.Request.Context(), c.Param("user_id"), cur, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, page)
}

// ListFollowers 查询某用户的粉丝（游标分页）
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param cursor query string false "游标"
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/relations/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	cur, limit, err := parseCursor(c)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	page, err := h.relations.ListFollowers(c.Request.Context(), c.Param("user_id"), cur, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, page)
}
