package router

import (
	"fmt"
	"strings"

	"github.com/careerbase/internal/cache"
	"github.com/careerbase/internal/config"
	"github.com/careerbase/internal/constants"
	adminhandlers "github.com/careerbase/internal/http/handlers/admin"
	publichandlers "github.com/careerbase/internal/http/handlers/public"
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/logger"
	"github.com/careerbase/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cb"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}
	resetRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:forgot_password", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	userAuth := UserJWTAuthMiddleware(c.TokenService, c.UserRepo)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/captcha/image", publicHandler.CaptchaChallenge)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", publicHandler.Signup)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/refresh", publicHandler.Refresh)
			auth.POST("/logout", userAuth, publicHandler.Logout)
			auth.POST("/forgot-password", RateLimitMiddleware(redisClient, resetRule, KeyByIPAndJSONField("email")), publicHandler.ForgotPassword)
			auth.POST("/reset-password", publicHandler.ResetPassword)
			auth.POST("/verify-email", publicHandler.VerifyEmail)
			auth.POST("/resend-verification", publicHandler.ResendVerification)
		}

		// 第三方登录
		oauth := apiV1.Group("/oauth")
		{
			oauth.GET("/:provider/redirect", publicHandler.OAuthRedirect)
			oauth.POST("/:provider/callback", publicHandler.OAuthCallback)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(userAuth)
		{
			user.GET("/me", publicHandler.Me)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.GET("/me/permissions", publicHandler.MyPermissions)
			user.GET("/me/menus", publicHandler.MyMenus)
		}

		// 管理员接口（需鉴权 + 按路由校验权限）
		admin := apiV1.Group("/admin")
		admin.Use(userAuth)
		{
			admin.GET("/users", RequirePermission(c.RBACService, constants.PermUserRead), adminHandler.ListUsers)
			admin.GET("/users/:id", RequirePermission(c.RBACService, constants.PermUserRead), adminHandler.GetUser)
			admin.PUT("/users/:id/roles", RequirePermission(c.RBACService, constants.PermUserWrite), adminHandler.AssignRoles)
			admin.PUT("/users/:id/status", RequirePermission(c.RBACService, constants.PermUserWrite), adminHandler.SetUserStatus)
			admin.DELETE("/users/:id", RequirePermission(c.RBACService, constants.PermUserWrite), adminHandler.DeleteUser)

			admin.GET("/roles", RequirePermission(c.RBACService, constants.PermRoleRead), adminHandler.ListRoles)
			admin.GET("/roles/:id", RequirePermission(c.RBACService, constants.PermRoleRead), adminHandler.GetRole)
			admin.POST("/roles", RequirePermission(c.RBACService, constants.PermRoleWrite), adminHandler.CreateRole)
			admin.PUT("/roles/:id", RequirePermission(c.RBACService, constants.PermRoleWrite), adminHandler.UpdateRole)
			admin.DELETE("/roles/:id", RequirePermission(c.RBACService, constants.PermRoleWrite), adminHandler.DeleteRole)

			admin.GET("/permissions", RequirePermission(c.RBACService, constants.PermRoleRead), adminHandler.ListPermissions)
			admin.POST("/permissions", RequirePermission(c.RBACService, constants.PermRoleWrite), adminHandler.CreatePermission)
			admin.PUT("/permissions/:id", RequirePermission(c.RBACService, constants.PermRoleWrite), adminHandler.UpdatePermission)
			admin.DELETE("/permissions/:id", RequirePermission(c.RBACService, constants.PermRoleWrite), adminHandler.DeletePermission)

			admin.GET("/menus", RequirePermission(c.RBACService, constants.PermMenuRead), adminHandler.ListMenus)
			admin.POST("/menus", RequirePermission(c.RBACService, constants.PermMenuWrite), adminHandler.CreateMenu)
			admin.PUT("/menus/:id", RequirePermission(c.RBACService, constants.PermMenuWrite), adminHandler.UpdateMenu)
			admin.DELETE("/menus/:id", RequirePermission(c.RBACService, constants.PermMenuWrite), adminHandler.DeleteMenu)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "接口不存在")
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
