package admin

import (
	"strconv"

	handlershared "github.com/careerbase/internal/http/handlers/shared"
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	roleID, _ := strconv.ParseUint(c.Query("role_id"), 10, 64)

	users, total, err := h.AdminService.ListUsers(repository.UserListFilter{
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
		RoleID:   uint(roleID),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondServiceError(c, err, "获取用户列表失败")
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, gin.H{"users": users}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetUser 用户详情（含角色与权限）
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	user, err := h.AdminService.GetUser(id)
	if err != nil {
		respondServiceError(c, err, "获取用户失败")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// AssignRolesRequest 用户角色分配请求
type AssignRolesRequest struct {
	MainRoleID        *uint  `json:"main_role_id"`
	AdditionalRoleIDs []uint `json:"additional_role_ids"`
}

// AssignRoles 设置用户的主角色与附加角色
func (h *Handler) AssignRoles(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	user, err := h.AdminService.AssignRoles(c.Request.Context(), id, req.MainRoleID, req.AdditionalRoleIDs)
	if err != nil {
		respondServiceError(c, err, "分配角色失败")
		return
	}
	response.Success(c, gin.H{"user": user})
}

// SetUserStatusRequest 用户状态变更请求
type SetUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetUserStatus 启用/禁用用户
func (h *Handler) SetUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.AdminService.SetUserStatus(c.Request.Context(), id, req.Status); err != nil {
		respondServiceError(c, err, "更新用户状态失败")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.AdminService.DeleteUser(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "删除用户失败")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
