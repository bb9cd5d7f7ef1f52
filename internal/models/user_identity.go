package models

import (
	"time"
)

// UserIdentity 第三方登录身份表
// 同一提供方下的外部账号只允许绑定一个本地用户
type UserIdentity struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                        // 主键
	UserID      uint      `gorm:"index;not null" json:"user_id"`                               // 本地用户
	Provider    string    `gorm:"uniqueIndex:idx_provider_uid;not null" json:"provider"`       // 提供方（google/github）
	ProviderUID string    `gorm:"uniqueIndex:idx_provider_uid;not null" json:"provider_uid"`   // 提供方用户标识
	Email       string    `gorm:"default:''" json:"email"`                                     // 提供方返回的邮箱
	DisplayName string    `gorm:"default:''" json:"display_name"`                              // 提供方返回的昵称
	AvatarURL   string    `gorm:"default:''" json:"avatar_url"`                                // 提供方返回的头像
	CreatedAt   time.Time `json:"created_at"`                                                  // 绑定时间
	UpdatedAt   time.Time `json:"updated_at"`                                                  // 更新时间
}

// TableName 指定表名
func (UserIdentity) TableName() string {
	return "user_identities"
}
