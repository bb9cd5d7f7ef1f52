package repository

import (
	"errors"

	"github.com/careerbase/internal/models"

	"gorm.io/gorm"
)

// PermissionRepository 权限数据访问接口
type PermissionRepository interface {
	GetByID(id uint) (*models.Permission, error)
	GetByName(name string) (*models.Permission, error)
	ListByIDs(ids []uint) ([]models.Permission, error)
	List() ([]models.Permission, error)
	Create(perm *models.Permission) error
	Update(perm *models.Permission) error
	Delete(id uint) error
}

// GormPermissionRepository GORM 实现
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository 创建权限仓库
func NewPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// GetByID 根据 ID 获取权限
func (r *GormPermissionRepository) GetByID(id uint) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.First(&perm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

// GetByName 根据名称获取权限
func (r *GormPermissionRepository) GetByName(name string) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.Where("name = ?", name).First(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

// ListByIDs 批量获取权限
func (r *GormPermissionRepository) ListByIDs(ids []uint) ([]models.Permission, error) {
	if len(ids) == 0 {
		return []models.Permission{}, nil
	}
	var perms []models.Permission
	if err := r.db.Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// List 权限列表
func (r *GormPermissionRepository) List() ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.db.Order("name ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// Create 创建权限
func (r *GormPermissionRepository) Create(perm *models.Permission) error {
	return r.db.Create(perm).Error
}

// Update 更新权限
func (r *GormPermissionRepository) Update(perm *models.Permission) error {
	return r.db.Save(perm).Error
}

// Delete 删除权限并清理关联
func (r *GormPermissionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM menu_permissions WHERE permission_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Permission{}, id).Error
	})
}
