package public

import (
	"errors"

	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var authCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "邮箱格式不正确"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "邮箱或密码错误"},
	{target: service.ErrEmailNotVerified, code: response.CodeForbidden, msg: "邮箱未验证"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "账号已禁用"},
	{target: service.ErrEmailExists, code: response.CodeConflict, msg: "邮箱已注册"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, msg: "密码强度不足"},
	{target: service.ErrTokenExpired, code: response.CodeTokenExpired, msg: "令牌已过期"},
	{target: service.ErrTokenInvalid, code: response.CodeUnauthorized, msg: "令牌无效"},
	{target: service.ErrAlreadyVerified, code: response.CodeConflict, msg: "邮箱已验证"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "资源不存在"},
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, msg: "需要验证码"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, msg: "验证码错误"},
	{target: service.ErrCaptchaConfigInvalid, code: response.CodeInternal, msg: "验证码配置无效"},
}
