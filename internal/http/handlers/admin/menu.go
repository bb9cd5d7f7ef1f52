package admin

import (
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/service"

	"github.com/gin-gonic/gin"
)

// MenuRequest 菜单创建/更新请求
type MenuRequest struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Icon          string `json:"icon"`
	SortOrder     int    `json:"sort_order"`
	ParentID      *uint  `json:"parent_id"`
	PermissionIDs []uint `json:"permission_ids"`
}

func (r MenuRequest) toInput() service.MenuInput {
	return service.MenuInput{
		Name:          r.Name,
		Path:          r.Path,
		Icon:          r.Icon,
		SortOrder:     r.SortOrder,
		ParentID:      r.ParentID,
		PermissionIDs: r.PermissionIDs,
	}
}

// ListMenus 菜单列表（管理端全量，含权限绑定）
func (h *Handler) ListMenus(c *gin.Context) {
	menus, err := h.AdminService.ListMenus()
	if err != nil {
		respondServiceError(c, err, "获取菜单列表失败")
		return
	}
	response.Success(c, gin.H{"menus": menus})
}

// CreateMenu 创建菜单
func (h *Handler) CreateMenu(c *gin.Context) {
	var req MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	menu, err := h.AdminService.CreateMenu(req.toInput())
	if err != nil {
		respondServiceError(c, err, "创建菜单失败")
		return
	}
	response.Success(c, gin.H{"menu": menu})
}

// UpdateMenu 更新菜单
func (h *Handler) UpdateMenu(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	menu, err := h.AdminService.UpdateMenu(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "更新菜单失败")
		return
	}
	response.Success(c, gin.H{"menu": menu})
}

// DeleteMenu 删除菜单
func (h *Handler) DeleteMenu(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.AdminService.DeleteMenu(id); err != nil {
		respondServiceError(c, err, "删除菜单失败")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
