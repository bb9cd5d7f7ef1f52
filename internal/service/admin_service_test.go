package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/careerbase/internal/constants"
	"github.com/careerbase/internal/models"
	"github.com/careerbase/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAdminServiceTest(t *testing.T) (*AdminService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.Menu{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	svc := NewAdminService(
		repository.NewUserRepository(db),
		repository.NewRoleRepository(db),
		repository.NewPermissionRepository(db),
		repository.NewMenuRepository(db),
	)
	return svc, db
}

func TestCreateRoleWithPermissions(t *testing.T) {
	svc, db := setupAdminServiceTest(t)

	perm := models.Permission{Name: "resume:view"}
	if err := db.Create(&perm).Error; err != nil {
		t.Fatalf("create permission failed: %v", err)
	}

	role, err := svc.CreateRole(RoleInput{
		Name:          "auditor",
		Description:   "审计角色",
		PermissionIDs: []uint{perm.ID},
	})
	if err != nil {
		t.Fatalf("create role failed: %v", err)
	}

	loaded, err := svc.GetRole(role.ID)
	if err != nil {
		t.Fatalf("get role failed: %v", err)
	}
	if len(loaded.Permissions) != 1 || loaded.Permissions[0].Name != "resume:view" {
		t.Fatalf("expected permission bound, got %+v", loaded.Permissions)
	}
}

func TestCreateRoleValidation(t *testing.T) {
	svc, _ := setupAdminServiceTest(t)

	if _, err := svc.CreateRole(RoleInput{Name: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty name, got %v", err)
	}

	if _, err := svc.CreateRole(RoleInput{Name: "auditor"}); err != nil {
		t.Fatalf("create role failed: %v", err)
	}
	if _, err := svc.CreateRole(RoleInput{Name: "auditor"}); !errors.Is(err, ErrNameExists) {
		t.Fatalf("expected ErrNameExists for duplicate, got %v", err)
	}
}

func TestUpdateRoleReplacesPermissionSet(t *testing.T) {
	svc, db := setupAdminServiceTest(t)
	ctx := context.Background()

	permA := models.Permission{Name: "resume:view"}
	permB := models.Permission{Name: "resume:edit"}
	if err := db.Create(&permA).Error; err != nil {
		t.Fatalf("create permission failed: %v", err)
	}
	if err := db.Create(&permB).Error; err != nil {
		t.Fatalf("create permission failed: %v", err)
	}

	role, err := svc.CreateRole(RoleInput{Name: "auditor", PermissionIDs: []uint{permA.ID}})
	if err != nil {
		t.Fatalf("create role failed: %v", err)
	}

	if _, err := svc.UpdateRole(ctx, role.ID, RoleInput{
		Name:          "auditor",
		PermissionIDs: []uint{permB.ID},
	}); err != nil {
		t.Fatalf("update role failed: %v", err)
	}

	loaded, err := svc.GetRole(role.ID)
	if err != nil {
		t.Fatalf("get role failed: %v", err)
	}
	if len(loaded.Permissions) != 1 || loaded.Permissions[0].Name != "resume:edit" {
		t.Fatalf("expected permission set replaced, got %+v", loaded.Permissions)
	}
}

func TestAssignRolesValidatesRoleIDs(t *testing.T) {
	svc, db := setupAdminServiceTest(t)
	ctx := context.Background()

	user := models.User{Email: "alice@example.com", PasswordHash: "hash", Status: constants.UserStatusActive}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	missing := uint(9999)
	if _, err := svc.AssignRoles(ctx, user.ID, &missing, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown main role, got %v", err)
	}

	main := models.Role{Name: "viewer"}
	extra := models.Role{Name: "editor"}
	if err := db.Create(&main).Error; err != nil {
		t.Fatalf("create role failed: %v", err)
	}
	if err := db.Create(&extra).Error; err != nil {
		t.Fatalf("create role failed: %v", err)
	}

	updated, err := svc.AssignRoles(ctx, user.ID, &main.ID, []uint{extra.ID})
	if err != nil {
		t.Fatalf("assign roles failed: %v", err)
	}
	if updated.MainRoleID == nil || *updated.MainRoleID != main.ID {
		t.Fatal("expected main role assigned")
	}

	var count int64
	if err := db.Table("user_roles").Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count join rows failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 additional role, got %d", count)
	}
}

func TestSetUserStatusDisabledRevokesRefreshToken(t *testing.T) {
	svc, db := setupAdminServiceTest(t)
	ctx := context.Background()

	user := models.User{
		Email:            "alice@example.com",
		PasswordHash:     "hash",
		Status:           constants.UserStatusActive,
		RefreshTokenHash: "hash-a",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	if err := svc.SetUserStatus(ctx, user.ID, constants.UserStatusDisabled); err != nil {
		t.Fatalf("set status failed: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if stored.Status != constants.UserStatusDisabled {
		t.Fatalf("expected disabled status, got %q", stored.Status)
	}
	if stored.RefreshTokenHash != "" {
		t.Fatal("expected refresh token revoked on disable")
	}
}

func TestDeletePermissionDetachesFromRolesAndMenus(t *testing.T) {
	svc, db := setupAdminServiceTest(t)

	perm := models.Permission{Name: "resume:view"}
	if err := db.Create(&perm).Error; err != nil {
		t.Fatalf("create permission failed: %v", err)
	}
	role := models.Role{Name: "viewer", Permissions: []models.Permission{perm}}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("create role failed: %v", err)
	}
	menu := models.Menu{Name: "简历", Path: "/resumes", Permissions: []models.Permission{perm}}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("create menu failed: %v", err)
	}

	if err := svc.DeletePermission(perm.ID); err != nil {
		t.Fatalf("delete permission failed: %v", err)
	}

	var roleJoin, menuJoin int64
	if err := db.Table("role_permissions").Where("permission_id = ?", perm.ID).Count(&roleJoin).Error; err != nil {
		t.Fatalf("count role join failed: %v", err)
	}
	if err := db.Table("menu_permissions").Where("permission_id = ?", perm.ID).Count(&menuJoin).Error; err != nil {
		t.Fatalf("count menu join failed: %v", err)
	}
	if roleJoin != 0 || menuJoin != 0 {
		t.Fatalf("expected join rows removed, role=%d menu=%d", roleJoin, menuJoin)
	}
}

func TestCreateMenuBindsPermissions(t *testing.T) {
	svc, db := setupAdminServiceTest(t)

	perm := models.Permission{Name: "user:read"}
	if err := db.Create(&perm).Error; err != nil {
		t.Fatalf("create permission failed: %v", err)
	}

	menu, err := svc.CreateMenu(MenuInput{
		Name:          "用户管理",
		Path:          "/users",
		SortOrder:     30,
		PermissionIDs: []uint{perm.ID},
	})
	if err != nil {
		t.Fatalf("create menu failed: %v", err)
	}

	menus, err := svc.ListMenus()
	if err != nil {
		t.Fatalf("list menus failed: %v", err)
	}
	if len(menus) != 1 || menus[0].ID != menu.ID {
		t.Fatalf("expected one menu, got %d", len(menus))
	}
	if len(menus[0].Permissions) != 1 || menus[0].Permissions[0].Name != "user:read" {
		t.Fatalf("expected permission bound, got %+v", menus[0].Permissions)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, _ := setupAdminServiceTest(t)

	if err := svc.DeleteUser(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
