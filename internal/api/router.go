package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/api/handler"
	"github.com/qs3c/blogmind_server/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	blogHandler      *handler.BlogHandler
	commentHandler   *handler.CommentHandler
	aiBlogHandler    *handler.AIBlogHandler
	uploadHandler    *handler.UploadHandler
	websocketHandler *handler.WebSocketHandler
	authenticator    middleware.Authenticator
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	blogHandler *handler.BlogHandler,
	commentHandler *handler.CommentHandler,
	aiBlogHandler *handler.AIBlogHandler,
	uploadHandler *handler.UploadHandler,
	websocketHandler *handler.WebSocketHandler,
	authenticator middleware.Authenticator,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		blogHandler:      blogHandler,
		commentHandler:   commentHandler,
		aiBlogHandler:    aiBlogHandler,
		uploadHandler:    uploadHandler,
		websocketHandler: websocketHandler,
		authenticator:    authenticator,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	secret := r.cfg.JWT.Secret

	api := engine.Group("/api/v1")
	{
		// 生成进度推送
		api.GET("/ws", r.websocketHandler.Handle)

		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.POST("/resend-otp", r.authHandler.ResendOTP)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		api.GET("/aiblogs/plans", r.aiBlogHandler.Plans)

		// 公开读取（可选认证，用于 liked 状态）
		public := api.Group("")
		public.Use(middleware.OptionalAuth(secret))
		{
			public.GET("/blogs", r.blogHandler.List)
			public.GET("/blogs/:id", r.blogHandler.Get)
			public.GET("/blogs/:id/comments", r.commentHandler.List)
		}

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(secret))
		{
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.POST("/avatar", r.userHandler.UploadAvatar)
				user.GET("/blogs", r.blogHandler.Mine)
			}

			authenticated.POST("/blogs", r.blogHandler.Create)
			authenticated.PUT("/blogs/:id", r.blogHandler.Update)
			authenticated.DELETE("/blogs/:id", r.blogHandler.Delete)
			authenticated.POST("/blogs/:id/like", r.blogHandler.ToggleLike)
			authenticated.POST("/blogs/:id/comments", r.commentHandler.Create)
			authenticated.PUT("/comments/:id", r.commentHandler.Update)
			authenticated.DELETE("/comments/:id", r.commentHandler.Delete)
			authenticated.POST("/upload/cover", r.uploadHandler.UploadCover)

			authenticated.GET("/aiblogs/membership", r.aiBlogHandler.Membership)
			authenticated.GET("/aiblogs/jobs", r.aiBlogHandler.Jobs)
			authenticated.GET("/aiblogs/orders", r.aiBlogHandler.Orders)

			// 需要已验证邮箱
			verified := authenticated.Group("/aiblogs")
			verified.Use(middleware.RequireVerified(r.authenticator))
			{
				verified.POST("/generate", r.aiBlogHandler.Generate)
				verified.POST("/checkout", r.aiBlogHandler.Checkout)
				verified.POST("/upgrade", r.aiBlogHandler.Upgrade)
			}
		}
	}

	return engine
}
