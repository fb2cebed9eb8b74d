package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/pkg/response"
)

const (
	ctxActorID   = "actor_id"
	ctxActorRole = "actor_role"
)

// Claims 请求主体声明：显式携带 actor 上下文，不依赖任何全局态
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth 解析 Bearer token 并把 actor 注入请求上下文
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(ctxActorID, claims.Subject)
		c.Set(ctxActorRole, claims.Role)
		c.Next()
	}
}

// RequireStaff 版主/管理员专属路由
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, role := CurrentActor(c)
		if role != model.RoleModerator && role != model.RoleAdmin {
			response.Forbidden(c, "moderator role required")
			return
		}
		c.Next()
	}
}

// CurrentActor 取当前请求主体（id, role）；未认证路由返回空串
func CurrentActor(c *gin.Context) (id, role string) {
	return c.GetString(ctxActorID), c.GetString(ctxActorRole)
}

// GenerateToken 签发 HS256 token（本地联调与测试用）
func GenerateToken(secret, userID, role string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
