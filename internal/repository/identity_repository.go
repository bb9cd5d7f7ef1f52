package repository

import (
	"errors"

	"github.com/careerbase/internal/models"

	"gorm.io/gorm"
)

// IdentityRepository 第三方身份数据访问接口
type IdentityRepository interface {
	GetByProvider(provider, providerUID string) (*models.UserIdentity, error)
	ListByUser(userID uint) ([]models.UserIdentity, error)
	Create(identity *models.UserIdentity) error
	Update(identity *models.UserIdentity) error
}

// GormIdentityRepository GORM 实现
type GormIdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository 创建身份仓库
func NewIdentityRepository(db *gorm.DB) *GormIdentityRepository {
	return &GormIdentityRepository{db: db}
}

// GetByProvider 根据提供方与外部标识获取身份
func (r *GormIdentityRepository) GetByProvider(provider, providerUID string) (*models.UserIdentity, error) {
	var identity models.UserIdentity
	err := r.db.Where("provider = ? AND provider_uid = ?", provider, providerUID).
		First(&identity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &identity, nil
}

// ListByUser 列出用户绑定的所有第三方身份
func (r *GormIdentityRepository) ListByUser(userID uint) ([]models.UserIdentity, error) {
	var identities []models.UserIdentity
	if err := r.db.Where("user_id = ?", userID).Find(&identities).Error; err != nil {
		return nil, err
	}
	return identities, nil
}

// Create 创建身份绑定
func (r *GormIdentityRepository) Create(identity *models.UserIdentity) error {
	return r.db.Create(identity).Error
}

// Update 更新身份信息
func (r *GormIdentityRepository) Update(identity *models.UserIdentity) error {
	return r.db.Save(identity).Error
}
