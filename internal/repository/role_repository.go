package repository

import (
	"errors"

	"github.com/careerbase/internal/models"

	"gorm.io/gorm"
)

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	GetByID(id uint) (*models.Role, error)
	GetByName(name string) (*models.Role, error)
	GetWithPermissions(id uint) (*models.Role, error)
	List() ([]models.Role, error)
	Create(role *models.Role) error
	Update(role *models.Role) error
	ReplacePermissions(role *models.Role, perms []models.Permission) error
	ReplaceMenus(role *models.Role, menus []models.Menu) error
	Delete(id uint) error
}

// GormRoleRepository GORM 实现
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository 创建角色仓库
func NewRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// GetByID 根据 ID 获取角色
func (r *GormRoleRepository) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// GetByName 根据名称获取角色
func (r *GormRoleRepository) GetByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// GetWithPermissions 获取角色并预载权限
func (r *GormRoleRepository) GetWithPermissions(id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.Preload("Permissions").First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// List 角色列表（预载权限）
func (r *GormRoleRepository) List() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Preload("Permissions").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Create 创建角色
func (r *GormRoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

// Update 更新角色
func (r *GormRoleRepository) Update(role *models.Role) error {
	return r.db.Save(role).Error
}

// ReplacePermissions 替换角色的权限集合
func (r *GormRoleRepository) ReplacePermissions(role *models.Role, perms []models.Permission) error {
	return r.db.Model(role).Association("Permissions").Replace(perms)
}

// ReplaceMenus 替换角色的菜单集合
func (r *GormRoleRepository) ReplaceMenus(role *models.Role, menus []models.Menu) error {
	return r.db.Model(role).Association("Menus").Replace(menus)
}

// Delete 软删除角色
func (r *GormRoleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Role{}, id).Error
}
