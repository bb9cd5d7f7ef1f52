package models

import (
	"time"

	"gorm.io/gorm"
)

// Menu 菜单表
// 未绑定任何权限的菜单对所有已登录用户可见
type Menu struct {
	ID        uint   `gorm:"primarykey" json:"id"`              // 主键
	Name      string `gorm:"not null" json:"name"`              // 菜单名
	Path      string `gorm:"default:''" json:"path"`            // 前端路由
	Icon      string `gorm:"default:''" json:"icon"`            // 图标
	SortOrder int    `gorm:"index;default:0" json:"sort_order"` // 排序（升序）
	ParentID  *uint  `gorm:"index" json:"parent_id"`            // 父菜单

	// 可见性要求的权限，多对多；满足任意一个即可见
	Permissions []Permission `gorm:"many2many:menu_permissions" json:"permissions,omitempty"`

	CreatedAt time.Time      `json:"created_at"` // 创建时间
	UpdatedAt time.Time      `json:"updated_at"` // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Menu) TableName() string {
	return "menus"
}
