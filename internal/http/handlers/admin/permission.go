package admin

import (
	"github.com/careerbase/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PermissionRequest 权限创建/更新请求
type PermissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListPermissions 权限列表
func (h *Handler) ListPermissions(c *gin.Context) {
	perms, err := h.AdminService.ListPermissions()
	if err != nil {
		respondServiceError(c, err, "获取权限列表失败")
		return
	}
	response.Success(c, gin.H{"permissions": perms})
}

// CreatePermission 创建权限
func (h *Handler) CreatePermission(c *gin.Context) {
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	perm, err := h.AdminService.CreatePermission(req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err, "创建权限失败")
		return
	}
	response.Success(c, gin.H{"permission": perm})
}

// UpdatePermission 更新权限描述
func (h *Handler) UpdatePermission(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	perm, err := h.AdminService.UpdatePermission(id, req.Description)
	if err != nil {
		respondServiceError(c, err, "更新权限失败")
		return
	}
	response.Success(c, gin.H{"permission": perm})
}

// DeletePermission 删除权限
func (h *Handler) DeletePermission(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.AdminService.DeletePermission(id); err != nil {
		respondServiceError(c, err, "删除权限失败")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
