package repository

import (
	"errors"

	"github.com/careerbase/internal/models"

	"gorm.io/gorm"
)

// MenuRepository 菜单数据访问接口
type MenuRepository interface {
	GetByID(id uint) (*models.Menu, error)
	ListAll() ([]models.Menu, error)
	ListByIDs(ids []uint) ([]models.Menu, error)
	Create(menu *models.Menu) error
	Update(menu *models.Menu) error
	ReplacePermissions(menu *models.Menu, perms []models.Permission) error
	Delete(id uint) error
}

// GormMenuRepository GORM 实现
type GormMenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository 创建菜单仓库
func NewMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// GetByID 根据 ID 获取菜单（预载权限）
func (r *GormMenuRepository) GetByID(id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := r.db.Preload("Permissions").First(&menu, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &menu, nil
}

// ListAll 全量菜单，按 sort_order 升序
func (r *GormMenuRepository) ListAll() ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.Preload("Permissions").
		Order("sort_order ASC, id ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

// ListByIDs 批量获取菜单
func (r *GormMenuRepository) ListByIDs(ids []uint) ([]models.Menu, error) {
	if len(ids) == 0 {
		return []models.Menu{}, nil
	}
	var menus []models.Menu
	if err := r.db.Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// Create 创建菜单
func (r *GormMenuRepository) Create(menu *models.Menu) error {
	return r.db.Create(menu).Error
}

// Update 更新菜单
func (r *GormMenuRepository) Update(menu *models.Menu) error {
	return r.db.Save(menu).Error
}

// ReplacePermissions 替换菜单的可见性权限集合
func (r *GormMenuRepository) ReplacePermissions(menu *models.Menu, perms []models.Permission) error {
	return r.db.Model(menu).Association("Permissions").Replace(perms)
}

// Delete 软删除菜单
func (r *GormMenuRepository) Delete(id uint) error {
	return r.db.Delete(&models.Menu{}, id).Error
}
