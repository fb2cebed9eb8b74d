package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-core/internal/api/middleware"
	"github.com/d60-Lab/social-core/pkg/response"
)

// ListNotifications 通知列表（游标分页）
// @Summary 通知列表
// @Tags 通知
// @Param cursor query string false "游标"
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	cur, limit, err := parseCursor(c)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	actorID, _ := middleware.CurrentActor(c)
	page, err := h.notifications.List(c.Request.Context(), actorID, cur, limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, page)
}

// MarkNotificationRead 单条已读
// @Summary 标记通知已读
// @Tags 通知
// @Param id path string true "通知ID"
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	actorID, _ := middleware.CurrentActor(c)
	ok, err := h.notifications.MarkRead(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFound(c, "notification not found or already read")
		return
	}
	response.Success(c, nil)
}

// MarkAllNotificationsRead 全部已读
// @Summary 全部通知已读
// @Tags 通知
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/read-all [post]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	actorID, _ := middleware.CurrentActor(c)
	if err := h.notifications.MarkAllRead(c.Request.Context(), actorID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, nil)
}

// UnreadNotificationCount 未读数（权威值；实时推送只是补充）
// @Summary 未读通知数
// @Tags 通知
// @Success 200 {object} response.Response
// @Router /api/v1/notifications/unread-count [get]
func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	actorID, _ := middleware.CurrentActor(c)
	count, err := h.notifications.UnreadCount(c.Request.Context(), actorID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"unread_count": count})
}
