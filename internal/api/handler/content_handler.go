package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-core/internal/api/middleware"
	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/pkg/response"
)

type contentBodyRequest struct {
	Body string `json:"body" binding:"required,max=10000"`
}

// CreatePost 发帖（入库后同步提及并扇出）
// @Summary 发帖
// @Tags 内容
// @Accept json
// @Produce json
// @Param request body contentBodyRequest true "正文"
// @Success 200 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req contentBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	p, err := h.content.CreatePost(c.Request.Context(), actorID, req.Body)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, p)
}

// EditPost 编辑帖子（提及整组重建，不二次扇出）
// @Summary 编辑帖子
// @Tags 内容
// @Param id path string true "帖子ID"
// @Param request body contentBodyRequest true "正文"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id} [put]
func (h *Handler) EditPost(c *gin.Context) {
	var req contentBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	p, err := h.content.EditPost(c.Request.Context(), actorID, c.Param("id"), req.Body)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePost 删帖
// @Summary 删除帖子
// @Tags 内容
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	actorID, role := middleware.CurrentActor(c)
	isStaff := role == model.RoleModerator || role == model.RoleAdmin
	if err := h.content.DeletePost(c.Request.Context(), actorID, isStaff, c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateComment 评论（入库后同步提及并三层扇出）
// @Summary 评论帖子
// @Tags 内容
// @Param id path string true "帖子ID"
// @Param request body contentBodyRequest true "正文"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req contentBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	cm, err := h.content.CreateComment(c.Request.Context(), actorID, c.Param("id"), req.Body)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, cm)
}

// EditComment 编辑评论
// @Summary 编辑评论
// @Tags 内容
// @Param id path string true "评论ID"
// @Param request body contentBodyRequest true "正文"
// @Success 200 {object} response.Response
// @Router /api/v1/comments/{id} [put]
func (h *Handler) EditComment(c *gin.Context) {
	var req contentBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	cm, err := h.content.EditComment(c.Request.Context(), actorID, c.Param("id"), req.Body)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, cm)
}

// DeleteComment 删评论
// @Summary 删除评论
// @Tags 内容
// @Param id path string true "评论ID"
// @Success 200 {object} response.Response
// @Router /api/v1/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	actorID, role := middleware.CurrentActor(c)
	isStaff := role == model.RoleModerator || role == model.RoleAdmin
	if err := h.content.DeleteComment(c.Request.Context(), actorID, isStaff, c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListComments 评论列表（游标分页，按查看者过滤拉黑关系）
// @Summary 评论列表
// @Tags 内容
// @Param id path string true "帖子ID"
// @Param cursor query string false "游标"
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	cur, limit, err := parseCursor(c)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	viewerID, _ := middleware.CurrentActor(c)
	page, err := h.content.ListComments(c.Request.Context(), viewerID, c.Param("id"), cur, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, page)
}
