package public

import (
	"github.com/careerbase/internal/constants"
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/models"
	"github.com/careerbase/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest 注册请求
type SignupRequest struct {
	Email          string                       `json:"email" binding:"required"`
	Password       string                       `json:"password" binding:"required"`
	DisplayName    string                       `json:"display_name"`
	CaptchaPayload service.CaptchaVerifyPayload `json:"captcha_payload"`
}

// Signup 用户注册
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.CaptchaService.Verify(constants.CaptchaSceneSignup, req.CaptchaPayload); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "验证码校验失败")
		return
	}

	user, pair, err := h.AuthService.Signup(c.Request.Context(), service.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "注册失败")
		return
	}

	payload := gin.H{
		"user":                userView(user),
		"verification_needed": !user.IsEmailVerified(),
	}
	if pair != nil {
		payload["tokens"] = pair
	}
	response.Success(c, payload)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, pair, err := h.AuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "登录失败")
		return
	}

	response.Success(c, gin.H{
		"user":   userView(user),
		"tokens": pair,
	})
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 刷新令牌轮换
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	_, pair, err := h.AuthService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "刷新失败")
		return
	}

	response.Success(c, gin.H{"tokens": pair})
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, response.CodeInternal, "登出失败", err)
		return
	}
	response.Success(c, gin.H{"logged_out": true})
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email          string                       `json:"email" binding:"required"`
	CaptchaPayload service.CaptchaVerifyPayload `json:"captcha_payload"`
}

// ForgotPassword 发起密码重置
// 无论邮箱是否注册都返回成功，避免账号探测
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.CaptchaService.Verify(constants.CaptchaSceneForgotPassword, req.CaptchaPayload); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "验证码校验失败")
		return
	}

	if err := h.AuthService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		// 未注册邮箱不暴露，仅内部记录
		requestLog(c).Infow("password_reset_request_skipped", "error", err)
	}

	response.SuccessWithMsg(c, "如果该邮箱已注册，重置邮件已发送", gin.H{"sent": true})
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword 凭重置令牌设置新密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.AuthService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "重置密码失败")
		return
	}

	response.SuccessWithMsg(c, "密码已重置，请重新登录", gin.H{"reset": true})
}

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyEmail 凭验证令牌标记邮箱已验证
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.AuthService.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "邮箱验证失败")
		return
	}

	response.SuccessWithMsg(c, "邮箱验证成功", gin.H{"verified": true})
}

// ResendVerificationRequest 重发验证邮件请求
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResendVerification 重发验证邮件
func (h *Handler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.AuthService.ResendVerificationEmail(c.Request.Context(), req.Email); err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "发送验证邮件失败")
		return
	}

	response.SuccessWithMsg(c, "验证邮件已发送", gin.H{"sent": true})
}

// userView 对外用户视图，隐藏敏感字段
func userView(user *models.User) gin.H {
	if user == nil {
		return nil
	}
	view := gin.H{
		"id":                user.ID,
		"email":             user.Email,
		"display_name":      user.DisplayName,
		"avatar_url":        user.AvatarURL,
		"status":            user.Status,
		"email_verified_at": user.EmailVerifiedAt,
		"last_login_at":     user.LastLoginAt,
		"created_at":        user.CreatedAt,
	}
	if user.MainRole != nil {
		view["main_role"] = user.MainRole.Name
	}
	return view
}
