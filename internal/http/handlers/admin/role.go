package admin

import (
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/service"

	"github.com/gin-gonic/gin"
)

// RoleRequest 角色创建/更新请求
type RoleRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PermissionIDs []uint `json:"permission_ids"`
}

// ListRoles 角色列表
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AdminService.ListRoles()
	if err != nil {
		respondServiceError(c, err, "获取角色列表失败")
		return
	}
	response.Success(c, gin.H{"roles": roles})
}

// GetRole 角色详情
func (h *Handler) GetRole(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	role, err := h.AdminService.GetRole(id)
	if err != nil {
		respondServiceError(c, err, "获取角色失败")
		return
	}
	response.Success(c, gin.H{"role": role})
}

// CreateRole 创建角色
func (h *Handler) CreateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	role, err := h.AdminService.CreateRole(service.RoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		respondServiceError(c, err, "创建角色失败")
		return
	}
	response.Success(c, gin.H{"role": role})
}

// UpdateRole 更新角色
func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	role, err := h.AdminService.UpdateRole(c.Request.Context(), id, service.RoleInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		respondServiceError(c, err, "更新角色失败")
		return
	}
	response.Success(c, gin.H{"role": role})
}

// DeleteRole 删除角色
func (h *Handler) DeleteRole(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.AdminService.DeleteRole(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "删除角色失败")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
