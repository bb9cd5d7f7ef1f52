package repository

import (
	"errors"
	"strings"

	"github.com/careerbase/internal/models"

	"gorm.io/gorm"
)

// UserListFilter 用户列表过滤条件
type UserListFilter struct {
	Keyword  string
	Status   string
	RoleID   uint
	Page     int
	PageSize int
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	GetByIDWithRoles(id uint) (*models.User, error)
	CreateIfEmailFree(user *models.User) (bool, error)
	Update(user *models.User) error
	UpdateFields(id uint, fields map[string]interface{}) error
	RotateRefreshToken(id uint, oldHash, newHash string) (bool, error)
	ClearRefreshToken(id uint) error
	ListWithVerificationToken() ([]models.User, error)
	ListWithResetToken() ([]models.User, error)
	List(filter UserListFilter) ([]models.User, int64, error)
	ReplaceAdditionalRoles(user *models.User, roles []models.Role) error
	Delete(id uint) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户（统一小写匹配）
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDWithRoles 根据 ID 获取用户并预载角色及其权限
func (r *GormUserRepository) GetByIDWithRoles(id uint) (*models.User, error) {
	var user models.User
	err := r.db.
		Preload("MainRole.Permissions").
		Preload("AdditionalRoles.Permissions").
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateIfEmailFree 邮箱未占用时创建用户
// 返回 false 表示邮箱已存在；检查与写入在同一事务内完成
func (r *GormUserRepository) CreateIfEmailFree(user *models.User) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateFields 按字段更新用户
func (r *GormUserRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// RotateRefreshToken 轮换刷新令牌哈希
// 仅当库中哈希仍等于 oldHash 时写入 newHash；返回 false 表示令牌已被他处消费
func (r *GormUserRepository) RotateRefreshToken(id uint, oldHash, newHash string) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("id = ? AND refresh_token_hash = ?", id, oldHash).
		Update("refresh_token_hash", newHash)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClearRefreshToken 清空刷新令牌哈希（登出/改密后全量失效）
func (r *GormUserRepository) ClearRefreshToken(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("refresh_token_hash", "").Error
}

// ListWithVerificationToken 列出存在验证令牌的用户
// 过期与否由调用方比对，已过期的记录也要能区分于无效令牌
func (r *GormUserRepository) ListWithVerificationToken() ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("verification_token_hash <> ''").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListWithResetToken 列出存在重置令牌的用户
func (r *GormUserRepository) ListWithResetToken() ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("reset_token_hash <> ''").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("email LIKE ? OR display_name LIKE ?", like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RoleID > 0 {
		query = query.Where(
			"main_role_id = ? OR id IN (SELECT user_id FROM user_roles WHERE role_id = ?)",
			filter.RoleID, filter.RoleID,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var users []models.User
	err := query.
		Preload("MainRole").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ReplaceAdditionalRoles 替换用户的附加角色集合
func (r *GormUserRepository) ReplaceAdditionalRoles(user *models.User, roles []models.Role) error {
	return r.db.Model(user).Association("AdditionalRoles").Replace(roles)
}

// Delete 软删除用户
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}
