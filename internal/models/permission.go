package models

import (
	"time"
)

// Permission 权限表
// 权限名采用 resource:action 形式，如 user:read
type Permission struct {
	ID          uint      `gorm:"primarykey" json:"id"`             // 主键
	Name        string    `gorm:"uniqueIndex;not null" json:"name"` // 权限名
	Description string    `gorm:"default:''" json:"description"`    // 描述
	CreatedAt   time.Time `json:"created_at"`                       // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (Permission) TableName() string {
	return "permissions"
}
