package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-core/internal/service"
	"github.com/d60-Lab/social-core/pkg/pagination"
	"github.com/d60-Lab/social-core/pkg/response"
)

// Handler 汇聚各领域服务的 HTTP 入口
type Handler struct {
	users         service.UserService
	relations     service.RelationshipService
	reactions     service.ReactionService
	notifications service.NotificationService
	reports       service.ReportService
	content       service.ContentService
}

func New(users service.UserService, relations service.RelationshipService, reactions service.ReactionService, notifications service.NotificationService, reports service.ReportService, content service.ContentService) *Handler {
	return &Handler{
		users:         users,
		relations:     relations,
		reactions:     reactions,
		notifications: notifications,
		reports:       reports,
		content:       content,
	}
}

// writeDomainError 领域错误按分类落到响应：冲突类是用户可见消息，不算系统错误
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTargetNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrBlockSelf),
		errors.Is(err, service.ErrReportSelf),
		errors.Is(err, service.ErrReportOwnContent),
		errors.Is(err, pagination.ErrBadCursor):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrBlockedRelationship),
		errors.Is(err, service.ErrModeratorImmune),
		errors.Is(err, service.ErrAlreadyBlockedBy),
		errors.Is(err, service.ErrAlreadyClosed),
		errors.Is(err, service.ErrUsernameTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func parseCursor(c *gin.Context) (*pagination.Cursor, int, error) {
	cur, err := pagination.Decode(c.Query("cursor"))
	if err != nil {
		return nil, 0, err
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return cur, pagination.ClampLimit(limit), nil
}
