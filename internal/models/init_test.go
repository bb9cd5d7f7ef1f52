package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/careerbase/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupModelsTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:models_init_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	DB = db
	if err := AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestInitDefaultsIsIdempotent(t *testing.T) {
	db := setupModelsTest(t)

	if err := InitDefaults(); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := InitDefaults(); err != nil {
		t.Fatalf("second init failed: %v", err)
	}

	var permCount, roleCount, menuCount int64
	db.Model(&Permission{}).Count(&permCount)
	db.Model(&Role{}).Count(&roleCount)
	db.Model(&Menu{}).Count(&menuCount)

	if permCount != int64(len(defaultPermissions)) {
		t.Fatalf("expected %d permissions, got %d", len(defaultPermissions), permCount)
	}
	if roleCount != int64(len(defaultRolePermissions)) {
		t.Fatalf("expected %d roles, got %d", len(defaultRolePermissions), roleCount)
	}
	if menuCount != int64(len(defaultMenus)) {
		t.Fatalf("expected %d menus, got %d", len(defaultMenus), menuCount)
	}
}

func TestInitDefaultsBindsRolePermissions(t *testing.T) {
	setupModelsTest(t)

	if err := InitDefaults(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	var viewer Role
	if err := DB.Preload("Permissions").Where("name = ?", constants.RoleViewer).First(&viewer).Error; err != nil {
		t.Fatalf("load viewer failed: %v", err)
	}
	if len(viewer.Permissions) != 1 || viewer.Permissions[0].Name != constants.PermResumeView {
		t.Fatalf("unexpected viewer permissions: %+v", viewer.Permissions)
	}

	var admin Role
	if err := DB.Preload("Permissions").Where("name = ?", constants.RoleAdmin).First(&admin).Error; err != nil {
		t.Fatalf("load admin failed: %v", err)
	}
	if len(admin.Permissions) != len(defaultPermissions) {
		t.Fatalf("expected admin to own every permission, got %d", len(admin.Permissions))
	}
}

func TestInitDefaultAdminCreatesOnce(t *testing.T) {
	db := setupModelsTest(t)

	if err := InitDefaults(); err != nil {
		t.Fatalf("init defaults failed: %v", err)
	}
	if err := InitDefaultAdmin("", ""); err != nil {
		t.Fatalf("init admin failed: %v", err)
	}
	if err := InitDefaultAdmin("", ""); err != nil {
		t.Fatalf("second init admin failed: %v", err)
	}

	var admins []User
	if err := db.Joins("JOIN roles ON roles.id = users.main_role_id").
		Where("roles.name = ?", constants.RoleAdmin).Find(&admins).Error; err != nil {
		t.Fatalf("load admins failed: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("expected exactly one admin, got %d", len(admins))
	}
	admin := admins[0]
	if admin.Email != "admin@careerbase.local" {
		t.Fatalf("unexpected admin email %q", admin.Email)
	}
	if !admin.IsEmailVerified() || !admin.IsActive() {
		t.Fatal("expected default admin active and verified")
	}
	if admin.PasswordHash == "admin123" {
		t.Fatal("admin password must be hashed")
	}
}
