package public

import (
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/models"

	"github.com/gin-gonic/gin"
)

// MyPermissions 当前用户的有效权限集合
func (h *Handler) MyPermissions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	perms, err := h.RBACService.EffectivePermissions(c.Request.Context(), userID)
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "权限解析失败")
		return
	}

	response.Success(c, gin.H{"permissions": perms})
}

// MyMenus 当前用户可见的菜单，按排序升序
func (h *Handler) MyMenus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	menus, err := h.RBACService.VisibleMenus(c.Request.Context(), userID)
	if err != nil {
		respondWithMappedError(c, err, authCommonErrorRules, response.CodeInternal, "菜单加载失败")
		return
	}

	response.Success(c, gin.H{"menus": menuViews(menus)})
}

func menuViews(menus []models.Menu) []gin.H {
	views := make([]gin.H, 0, len(menus))
	for _, m := range menus {
		views = append(views, gin.H{
			"id":         m.ID,
			"name":       m.Name,
			"path":       m.Path,
			"icon":       m.Icon,
			"sort_order": m.SortOrder,
			"parent_id":  m.ParentID,
		})
	}
	return views
}
