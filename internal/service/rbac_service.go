package service

import (
	"context"
	"sort"

	"github.com/careerbase/internal/cache"
	"github.com/careerbase/internal/models"
	"github.com/careerbase/internal/repository"
)

// RBACService 权限解析服务
// 有效权限 = 主角色权限 ∪ 所有附加角色权限
type RBACService struct {
	userRepo repository.UserRepository
	menuRepo repository.MenuRepository
}

// NewRBACService 创建权限解析服务
func NewRBACService(userRepo repository.UserRepository, menuRepo repository.MenuRepository) *RBACService {
	return &RBACService{userRepo: userRepo, menuRepo: menuRepo}
}

// EffectivePermissions 计算用户的有效权限集合
// 结果去重并按字典序排列；命中 Redis 快照时不查库
func (s *RBACService) EffectivePermissions(ctx context.Context, userID uint) ([]string, error) {
	if perms, hit, err := cache.GetUserPermissions(ctx, userID); err == nil && hit {
		return perms, nil
	}

	user, err := s.userRepo.GetByIDWithRoles(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	perms := UnionPermissions(user)
	_ = cache.SetUserPermissions(ctx, userID, perms)
	return perms, nil
}

// HasPermission 判断用户是否拥有指定权限
func (s *RBACService) HasPermission(ctx context.Context, userID uint, permission string) (bool, error) {
	perms, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

// VisibleMenus 返回用户可见的菜单，按 sort_order 升序
func (s *RBACService) VisibleMenus(ctx context.Context, userID uint) ([]models.Menu, error) {
	perms, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	menus, err := s.menuRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return FilterMenus(menus, perms), nil
}

// Invalidate 清除用户的权限快照
// 角色或角色权限变化后调用
func (s *RBACService) Invalidate(ctx context.Context, userID uint) {
	cache.InvalidateUser(ctx, userID)
}

// UnionPermissions 合并用户所有角色的权限
func UnionPermissions(user *models.User) []string {
	set := make(map[string]struct{})
	if user.MainRole != nil {
		for _, p := range user.MainRole.Permissions {
			set[p.Name] = struct{}{}
		}
	}
	for _, role := range user.AdditionalRoles {
		for _, p := range role.Permissions {
			set[p.Name] = struct{}{}
		}
	}

	perms := make([]string, 0, len(set))
	for name := range set {
		perms = append(perms, name)
	}
	sort.Strings(perms)
	return perms
}

// FilterMenus 按权限过滤菜单
// 未绑定权限的菜单对所有人可见；绑定多个权限时满足任意一个即可
func FilterMenus(menus []models.Menu, perms []string) []models.Menu {
	permSet := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		permSet[p] = struct{}{}
	}

	visible := make([]models.Menu, 0, len(menus))
	for _, menu := range menus {
		if len(menu.Permissions) == 0 {
			visible = append(visible, menu)
			continue
		}
		for _, p := range menu.Permissions {
			if _, ok := permSet[p.Name]; ok {
				visible = append(visible, menu)
				break
			}
		}
	}
	return visible
}
