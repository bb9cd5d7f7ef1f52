package service

import (
	"context"
	"strings"

	"github.com/careerbase/internal/cache"
	"github.com/careerbase/internal/constants"
	"github.com/careerbase/internal/models"
	"github.com/careerbase/internal/repository"
)

// AdminService 访问控制管理服务
// 角色、权限、菜单与用户授权的增删改查
type AdminService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	permRepo repository.PermissionRepository
	menuRepo repository.MenuRepository
}

// NewAdminService 创建管理服务
func NewAdminService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	permRepo repository.PermissionRepository,
	menuRepo repository.MenuRepository,
) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		permRepo: permRepo,
		menuRepo: menuRepo,
	}
}

// RoleInput 角色创建/更新参数
type RoleInput struct {
	Name          string
	Description   string
	PermissionIDs []uint
}

// MenuInput 菜单创建/更新参数
type MenuInput struct {
	Name          string
	Path          string
	Icon          string
	SortOrder     int
	ParentID      *uint
	PermissionIDs []uint
}

// ListRoles 角色列表
func (s *AdminService) ListRoles() ([]models.Role, error) {
	return s.roleRepo.List()
}

// GetRole 角色详情
func (s *AdminService) GetRole(id uint) (*models.Role, error) {
	role, err := s.roleRepo.GetWithPermissions(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrNotFound
	}
	return role, nil
}

// CreateRole 创建角色
func (s *AdminService) CreateRole(in RoleInput) (*models.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	exist, err := s.roleRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrNameExists
	}

	role := &models.Role{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.roleRepo.Create(role); err != nil {
		return nil, err
	}
	if len(in.PermissionIDs) > 0 {
		perms, err := s.permRepo.ListByIDs(in.PermissionIDs)
		if err != nil {
			return nil, err
		}
		if err := s.roleRepo.ReplacePermissions(role, perms); err != nil {
			return nil, err
		}
	}
	return s.roleRepo.GetWithPermissions(role.ID)
}

// UpdateRole 更新角色及其权限集合
// 权限集变化会影响该角色下所有用户的有效权限，对应快照需失效
func (s *AdminService) UpdateRole(ctx context.Context, id uint, in RoleInput) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrNotFound
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		role.Name = name
	}
	role.Description = strings.TrimSpace(in.Description)
	if err := s.roleRepo.Update(role); err != nil {
		return nil, err
	}

	perms, err := s.permRepo.ListByIDs(in.PermissionIDs)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.ReplacePermissions(role, perms); err != nil {
		return nil, err
	}

	s.invalidateRoleMembers(ctx, id)
	return s.roleRepo.GetWithPermissions(id)
}

// DeleteRole 删除角色
func (s *AdminService) DeleteRole(ctx context.Context, id uint) error {
	role, err := s.roleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrNotFound
	}
	s.invalidateRoleMembers(ctx, id)
	return s.roleRepo.Delete(id)
}

// ListPermissions 权限列表
func (s *AdminService) ListPermissions() ([]models.Permission, error) {
	return s.permRepo.List()
}

// CreatePermission 创建权限
func (s *AdminService) CreatePermission(name, description string) (*models.Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	exist, err := s.permRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrNameExists
	}
	perm := &models.Permission{Name: name, Description: strings.TrimSpace(description)}
	if err := s.permRepo.Create(perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// UpdatePermission 更新权限描述
func (s *AdminService) UpdatePermission(id uint, description string) (*models.Permission, error) {
	perm, err := s.permRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return nil, ErrNotFound
	}
	perm.Description = strings.TrimSpace(description)
	if err := s.permRepo.Update(perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// DeletePermission 删除权限
func (s *AdminService) DeletePermission(id uint) error {
	perm, err := s.permRepo.GetByID(id)
	if err != nil {
		return err
	}
	if perm == nil {
		return ErrNotFound
	}
	return s.permRepo.Delete(id)
}

// ListMenus 菜单列表
func (s *AdminService) ListMenus() ([]models.Menu, error) {
	return s.menuRepo.ListAll()
}

// CreateMenu 创建菜单
func (s *AdminService) CreateMenu(in MenuInput) (*models.Menu, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	menu := &models.Menu{
		Name:      name,
		Path:      strings.TrimSpace(in.Path),
		Icon:      strings.TrimSpace(in.Icon),
		SortOrder: in.SortOrder,
		ParentID:  in.ParentID,
	}
	if err := s.menuRepo.Create(menu); err != nil {
		return nil, err
	}
	if len(in.PermissionIDs) > 0 {
		perms, err := s.permRepo.ListByIDs(in.PermissionIDs)
		if err != nil {
			return nil, err
		}
		if err := s.menuRepo.ReplacePermissions(menu, perms); err != nil {
			return nil, err
		}
	}
	return s.menuRepo.GetByID(menu.ID)
}

// UpdateMenu 更新菜单及其可见性权限
func (s *AdminService) UpdateMenu(id uint, in MenuInput) (*models.Menu, error) {
	menu, err := s.menuRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, ErrNotFound
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		menu.Name = name
	}
	menu.Path = strings.TrimSpace(in.Path)
	menu.Icon = strings.TrimSpace(in.Icon)
	menu.SortOrder = in.SortOrder
	menu.ParentID = in.ParentID
	if err := s.menuRepo.Update(menu); err != nil {
		return nil, err
	}

	perms, err := s.permRepo.ListByIDs(in.PermissionIDs)
	if err != nil {
		return nil, err
	}
	if err := s.menuRepo.ReplacePermissions(menu, perms); err != nil {
		return nil, err
	}
	return s.menuRepo.GetByID(id)
}

// DeleteMenu 删除菜单
func (s *AdminService) DeleteMenu(id uint) error {
	menu, err := s.menuRepo.GetByID(id)
	if err != nil {
		return err
	}
	if menu == nil {
		return ErrNotFound
	}
	return s.menuRepo.Delete(id)
}

// ListUsers 用户列表
func (s *AdminService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// GetUser 用户详情（含角色与权限）
func (s *AdminService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithRoles(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// AssignRoles 设置用户的主角色与附加角色
func (s *AdminService) AssignRoles(ctx context.Context, userID uint, mainRoleID *uint, additionalRoleIDs []uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if mainRoleID != nil {
		role, err := s.roleRepo.GetByID(*mainRoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrNotFound
		}
	}
	user.MainRoleID = mainRoleID
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	roles := make([]models.Role, 0, len(additionalRoleIDs))
	for _, id := range additionalRoleIDs {
		role, err := s.roleRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrNotFound
		}
		roles = append(roles, *role)
	}
	if err := s.userRepo.ReplaceAdditionalRoles(user, roles); err != nil {
		return nil, err
	}

	cache.InvalidateUser(ctx, userID)
	return s.userRepo.GetByIDWithRoles(userID)
}

// SetUserStatus 启用/禁用用户
// 禁用同时作废刷新令牌，已签发的访问令牌在快照失效后拒绝
func (s *AdminService) SetUserStatus(ctx context.Context, userID uint, status string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	fields := map[string]interface{}{"status": status}
	if status != constants.UserStatusActive {
		fields["refresh_token_hash"] = ""
	}
	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

// DeleteUser 删除用户
func (s *AdminService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	cache.InvalidateUser(ctx, userID)
	return s.userRepo.Delete(userID)
}

// invalidateRoleMembers 失效拥有该角色的用户快照
func (s *AdminService) invalidateRoleMembers(ctx context.Context, roleID uint) {
	users, _, err := s.userRepo.List(repository.UserListFilter{RoleID: roleID, PageSize: 100})
	if err != nil {
		return
	}
	for _, u := range users {
		cache.InvalidateUser(ctx, u.ID)
	}
}
