package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-core/pkg/response"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// CreateUser 创建用户（本地联调用，会话/认证流程在核心之外）
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body createUserRequest true "用户信息"
// @Success 200 {object} response.Response
// @Router /api/v1/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.users.Create(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, gin.H{"id": u.ID, "username": u.Username})
}
