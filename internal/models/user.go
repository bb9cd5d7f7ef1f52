package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`              // 主键
	Email        string `gorm:"uniqueIndex;not null" json:"email"` // 邮箱（统一小写）
	PasswordHash string `gorm:"not null" json:"-"`                 // 密码哈希（不返回给前端）
	DisplayName  string `gorm:"default:''" json:"display_name"`    // 昵称
	AvatarURL    string `gorm:"default:''" json:"avatar_url"`      // 头像
	Status       string `gorm:"default:'active'" json:"status"`    // 账号状态

	// 刷新令牌哈希（SHA-256 十六进制），登录/刷新时轮换，登出时清空
	RefreshTokenHash string `gorm:"index;default:''" json:"-"`

	// 邮箱验证令牌（bcrypt 哈希存储，明文只出现在邮件里）
	VerificationTokenHash      string     `gorm:"default:''" json:"-"`
	VerificationTokenExpiresAt *time.Time `gorm:"index" json:"-"`

	// 密码重置令牌（bcrypt 哈希存储，一次性消费）
	ResetTokenHash      string     `gorm:"default:''" json:"-"`
	ResetTokenExpiresAt *time.Time `gorm:"index" json:"-"`

	EmailVerifiedAt *time.Time `json:"email_verified_at"` // 邮箱验证时间
	LastLoginAt     *time.Time `json:"last_login_at"`     // 最后登录时间

	MainRoleID *uint `gorm:"index" json:"main_role_id"` // 主角色
	MainRole   *Role `gorm:"foreignKey:MainRoleID" json:"main_role,omitempty"`

	// 附加角色，多对多
	AdditionalRoles []Role `gorm:"many2many:user_roles" json:"additional_roles,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"` // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsActive 账号是否可登录
func (u *User) IsActive() bool {
	return u.Status == "active"
}

// IsEmailVerified 邮箱是否已验证
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}
