package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 内置角色常量
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// OAuth 提供方常量
const (
	OAuthProviderGoogle = "google"
	OAuthProviderGithub = "github"
)

// 一次性令牌用途常量
const (
	TokenPurposeVerifyEmail   = "verify_email"
	TokenPurposeResetPassword = "reset_password"
)

// 验证码场景常量
const (
	CaptchaSceneSignup         = "signup"
	CaptchaSceneForgotPassword = "forgot_password"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 队列任务类型常量
const (
	TaskVerificationEmail  = "auth:verification_email"
	TaskPasswordResetEmail = "auth:password_reset_email"
)

// 权限目录常量（resource:action）
const (
	PermUserRead   = "user:read"
	PermUserWrite  = "user:write"
	PermRoleRead   = "role:read"
	PermRoleWrite  = "role:write"
	PermMenuRead   = "menu:read"
	PermMenuWrite  = "menu:write"
	PermResumeView = "resume:view"
	PermResumeEdit = "resume:edit"
)
