package public

import (
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/service"

	"github.com/gin-gonic/gin"
)

// Me 获取当前用户资料
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	profile, err := h.UserService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "获取资料失败")
		return
	}

	identities := make([]gin.H, 0, len(profile.Identities))
	for _, id := range profile.Identities {
		identities = append(identities, gin.H{
			"provider":     id.Provider,
			"display_name": id.DisplayName,
			"created_at":   id.CreatedAt,
		})
	}

	response.Success(c, gin.H{
		"user":        userView(profile.User),
		"identities":  identities,
		"permissions": profile.Permissions,
	})
}

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, err := h.UserService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdateInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "更新资料失败")
		return
	}

	response.Success(c, gin.H{"user": userView(user)})
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 修改密码
// 成功后所有刷新令牌作废，客户端需重新登录
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.AuthService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "修改密码失败")
		return
	}

	response.SuccessWithMsg(c, "密码已修改，请重新登录", gin.H{"changed": true})
}
