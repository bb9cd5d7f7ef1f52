package provider

import (
	"github.com/careerbase/internal/cache"
	"github.com/careerbase/internal/config"
	"github.com/careerbase/internal/logger"
	"github.com/careerbase/internal/models"
	"github.com/careerbase/internal/queue"
	"github.com/careerbase/internal/repository"
	"github.com/careerbase/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo       repository.UserRepository
	IdentityRepo   repository.IdentityRepository
	RoleRepo       repository.RoleRepository
	PermissionRepo repository.PermissionRepository
	MenuRepo       repository.MenuRepository

	// Services
	PasswordHasher *service.PasswordHasher
	TokenService   *service.TokenService
	AuthService    *service.AuthService
	RBACService    *service.RBACService
	UserService    *service.UserService
	AdminService   *service.AdminService
	OAuthService   *service.OAuthService
	EmailService   *service.EmailService
	CaptchaService *service.CaptchaService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.IdentityRepo = repository.NewIdentityRepository(db)
	c.RoleRepo = repository.NewRoleRepository(db)
	c.PermissionRepo = repository.NewPermissionRepository(db)
	c.MenuRepo = repository.NewMenuRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.PasswordHasher = service.NewPasswordHasher(cfg.Security.HasherWorkers)
	c.TokenService = service.NewTokenService(cfg)
	c.EmailService = service.NewEmailService(&cfg.Email, cfg.Auth.FrontendBaseURL)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)

	c.AuthService = service.NewAuthService(
		cfg,
		c.UserRepo,
		c.RoleRepo,
		c.PasswordHasher,
		c.TokenService,
		c.QueueClient,
	)
	c.RBACService = service.NewRBACService(c.UserRepo, c.MenuRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.IdentityRepo)
	c.AdminService = service.NewAdminService(c.UserRepo, c.RoleRepo, c.PermissionRepo, c.MenuRepo)
	c.OAuthService = service.NewOAuthService(cfg, c.UserRepo, c.IdentityRepo, c.RoleRepo)
}
