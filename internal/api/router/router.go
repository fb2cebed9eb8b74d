package router

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/social-core/config"
	_ "github.com/d60-Lab/social-core/docs"
	"github.com/d60-Lab/social-core/internal/api/handler"
	"github.com/d60-Lab/social-core/internal/api/middleware"
	"github.com/d60-Lab/social-core/internal/model"
)

// Setup 组装路由与中间件
func Setup(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(otelgin.Middleware("social-core"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")

	// 可选查看者上下文的公开读路径
	public := api.Group("")
	public.Use(middleware.OptionalAuth(cfg.JWT.Secret))
	{
		public.GET("/reactions/summary", h.ReactionSummary)
		public.GET("/posts/:id/comments", h.ListComments)
		public.GET("/relations/:user_id/following", h.ListFollowing)
		public.GET("/relations/:user_id/followers", h.ListFollowers)
	}

	api.POST("/users", h.CreateUser)

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWT.Secret))
	{
		authed.POST("/relations/follow", h.ToggleFollow)
		authed.POST("/relations/block", h.ToggleBlock)

		authed.POST("/reactions/toggle", h.ToggleReaction)

		authed.GET("/notifications", h.ListNotifications)
		authed.GET("/notifications/unread-count", h.UnreadNotificationCount)
		authed.POST("/notifications/:id/read", h.MarkNotificationRead)
		authed.POST("/notifications/read-all", h.MarkAllNotificationsRead)

		authed.POST("/posts", h.CreatePost)
		authed.PUT("/posts/:id", h.EditPost)
		authed.DELETE("/posts/:id", h.DeletePost)
		authed.POST("/posts/:id/comments", h.CreateComment)
		authed.PUT("/comments/:id", h.EditComment)
		authed.DELETE("/comments/:id", h.DeleteComment)

		authed.POST("/reports", h.CreateReport)

		staff := authed.Group("/reports")
		staff.Use(middleware.RequireStaff())
		{
			staff.GET("", h.ListReports)
			staff.GET("/:id", h.GetReport)
			staff.POST("/:id/close", h.CloseReport)
		}
	}

	return r
}

func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("targetkind", func(fl validator.FieldLevel) bool {
			return model.TargetKind(fl.Field().String()).Valid()
		})
	}
}
