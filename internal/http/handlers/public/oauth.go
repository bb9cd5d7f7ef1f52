package public

import (
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var oauthErrorRules = []mappedHandlerError{
	{target: service.ErrOAuthProvider, code: response.CodeBadRequest, msg: "不支持的第三方提供方"},
	{target: service.ErrOAuthEmailMissing, code: response.CodeBadRequest, msg: "第三方账号未提供邮箱"},
	{target: service.ErrTokenInvalid, code: response.CodeUnauthorized, msg: "第三方授权失败"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, msg: "账号已禁用"},
}

// OAuthRedirect 跳转到第三方授权页
func (h *Handler) OAuthRedirect(c *gin.Context) {
	provider := c.Param("provider")
	state := uuid.NewString()

	url, err := h.OAuthService.AuthCodeURL(provider, state)
	if err != nil {
		respondWithMappedError(c, err, oauthErrorRules, response.CodeInternal, "第三方登录不可用")
		return
	}

	// state 交给前端在回调时带回
	response.Success(c, gin.H{
		"auth_url": url,
		"state":    state,
	})
}

// OAuthCallbackRequest 第三方回调请求
type OAuthCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// OAuthCallback 第三方授权回调，换取本地令牌对
func (h *Handler) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")

	var req OAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, err := h.OAuthService.HandleCallback(c.Request.Context(), provider, req.Code)
	if err != nil {
		respondWithMappedError(c, err, oauthErrorRules, response.CodeInternal, "第三方登录失败")
		return
	}

	pair, err := h.AuthService.IssueTokensFor(c.Request.Context(), user)
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "第三方登录失败")
		return
	}

	response.Success(c, gin.H{
		"user":   userView(user),
		"tokens": pair,
	})
}
