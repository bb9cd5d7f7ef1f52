package models

import (
	"strings"
	"time"

	"github.com/careerbase/internal/constants"
	"github.com/careerbase/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// defaultPermissions 内置权限目录
var defaultPermissions = []Permission{
	{Name: constants.PermUserRead, Description: "查看用户"},
	{Name: constants.PermUserWrite, Description: "管理用户"},
	{Name: constants.PermRoleRead, Description: "查看角色"},
	{Name: constants.PermRoleWrite, Description: "管理角色"},
	{Name: constants.PermMenuRead, Description: "查看菜单"},
	{Name: constants.PermMenuWrite, Description: "管理菜单"},
	{Name: constants.PermResumeView, Description: "查看简历"},
	{Name: constants.PermResumeEdit, Description: "编辑简历"},
}

// defaultRolePermissions 内置角色与权限的映射
var defaultRolePermissions = map[string][]string{
	constants.RoleAdmin: {
		constants.PermUserRead, constants.PermUserWrite,
		constants.PermRoleRead, constants.PermRoleWrite,
		constants.PermMenuRead, constants.PermMenuWrite,
		constants.PermResumeView, constants.PermResumeEdit,
	},
	constants.RoleEditor: {
		constants.PermResumeView, constants.PermResumeEdit,
	},
	constants.RoleViewer: {
		constants.PermResumeView,
	},
}

// defaultMenus 内置菜单；Permissions 为空表示所有已登录用户可见
var defaultMenus = []struct {
	Name        string
	Path        string
	Icon        string
	SortOrder   int
	Permissions []string
}{
	{Name: "首页", Path: "/dashboard", Icon: "home", SortOrder: 10},
	{Name: "简历", Path: "/resumes", Icon: "file", SortOrder: 20, Permissions: []string{constants.PermResumeView}},
	{Name: "用户管理", Path: "/admin/users", Icon: "users", SortOrder: 30, Permissions: []string{constants.PermUserRead}},
	{Name: "角色管理", Path: "/admin/roles", Icon: "shield", SortOrder: 40, Permissions: []string{constants.PermRoleRead}},
	{Name: "菜单管理", Path: "/admin/menus", Icon: "menu", SortOrder: 50, Permissions: []string{constants.PermMenuRead}},
}

// InitDefaults 初始化内置权限、角色与菜单
// 幂等：已存在的记录不重复创建，内置角色的权限集会被补齐
func InitDefaults() error {
	for i := range defaultPermissions {
		p := defaultPermissions[i]
		if err := DB.Where(Permission{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}

	var perms []Permission
	if err := DB.Find(&perms).Error; err != nil {
		return err
	}
	permByName := make(map[string]Permission, len(perms))
	for _, p := range perms {
		permByName[p.Name] = p
	}

	for roleName, permNames := range defaultRolePermissions {
		role := Role{Name: roleName}
		if err := DB.Where(Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		attach := make([]Permission, 0, len(permNames))
		for _, name := range permNames {
			if p, ok := permByName[name]; ok {
				attach = append(attach, p)
			}
		}
		if err := DB.Model(&role).Association("Permissions").Replace(attach); err != nil {
			return err
		}
	}

	var menuCount int64
	DB.Model(&Menu{}).Count(&menuCount)
	if menuCount == 0 {
		for _, m := range defaultMenus {
			menu := Menu{Name: m.Name, Path: m.Path, Icon: m.Icon, SortOrder: m.SortOrder}
			if err := DB.Create(&menu).Error; err != nil {
				return err
			}
			if len(m.Permissions) > 0 {
				attach := make([]Permission, 0, len(m.Permissions))
				for _, name := range m.Permissions {
					if p, ok := permByName[name]; ok {
						attach = append(attach, p)
					}
				}
				if err := DB.Model(&menu).Association("Permissions").Replace(attach); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// InitDefaultAdmin 初始化默认管理员账号
func InitDefaultAdmin(email, password string) error {
	var count int64
	DB.Model(&User{}).Joins("JOIN roles ON roles.id = users.main_role_id").
		Where("roles.name = ?", constants.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "admin@careerbase.local"
	}
	if password == "" {
		password = "admin123"
	}
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var adminRole Role
	if err := DB.Where("name = ?", constants.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	now := time.Now()
	admin := User{
		Email:           email,
		PasswordHash:    string(hash),
		DisplayName:     "Administrator",
		Status:          constants.UserStatusActive,
		EmailVerifiedAt: &now,
		MainRoleID:      &adminRole.ID,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}

	return nil
}
