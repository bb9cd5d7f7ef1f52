package service

import "errors"

// 业务错误哨兵，处理器通过 errors.Is 映射为响应码
var (
	ErrInvalidCredentials   = errors.New("邮箱或密码错误")
	ErrEmailNotVerified     = errors.New("邮箱未验证")
	ErrUserDisabled         = errors.New("账号已禁用")
	ErrEmailExists          = errors.New("邮箱已注册")
	ErrUnauthorized         = errors.New("未授权")
	ErrTokenInvalid         = errors.New("令牌无效")
	ErrTokenExpired         = errors.New("令牌已过期")
	ErrNotFound             = errors.New("资源不存在")
	ErrAlreadyVerified      = errors.New("邮箱已验证")
	ErrWeakPassword         = errors.New("密码强度不足")
	ErrInvalidEmail         = errors.New("邮箱格式不正确")
	ErrOAuthProvider        = errors.New("不支持的第三方提供方")
	ErrOAuthEmailMissing    = errors.New("第三方账号未提供邮箱")
	ErrCaptchaInvalid       = errors.New("验证码错误")
	ErrCaptchaRequired      = errors.New("需要验证码")
	ErrCaptchaConfigInvalid = errors.New("验证码配置无效")
	ErrEmailNotConfigured   = errors.New("邮件服务未配置")
	ErrNameExists           = errors.New("名称已存在")
	ErrInvalidInput         = errors.New("参数无效")
)
