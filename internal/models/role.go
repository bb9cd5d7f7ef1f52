package models

import (
	"time"

	"gorm.io/gorm"
)

// Role 角色表
type Role struct {
	ID          uint   `gorm:"primarykey" json:"id"`             // 主键
	Name        string `gorm:"uniqueIndex;not null" json:"name"` // 角色名
	Description string `gorm:"default:''" json:"description"`    // 描述

	// 角色拥有的权限，多对多
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	// 角色可见的菜单，多对多
	Menus []Menu `gorm:"many2many:role_menus" json:"menus,omitempty"`

	CreatedAt time.Time      `json:"created_at"` // 创建时间
	UpdatedAt time.Time      `json:"updated_at"` // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Role) TableName() string {
	return "roles"
}
