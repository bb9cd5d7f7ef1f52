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

func setupRBACServiceTest(t *testing.T) (*RBACService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:rbac_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	return NewRBACService(userRepo, menuRepo), db
}

func createPermission(t *testing.T, db *gorm.DB, name string) *models.Permission {
	t.Helper()
	perm := &models.Permission{Name: name}
	if err := db.Create(perm).Error; err != nil {
		t.Fatalf("create permission %s failed: %v", name, err)
	}
	return perm
}

func createRoleWithPermissions(t *testing.T, db *gorm.DB, name string, perms ...*models.Permission) *models.Role {
	t.Helper()
	role := &models.Role{Name: name}
	for _, p := range perms {
		role.Permissions = append(role.Permissions, *p)
	}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("create role %s failed: %v", name, err)
	}
	return role
}

func TestEffectivePermissionsUnionOfRoles(t *testing.T) {
	svc, db := setupRBACServiceTest(t)

	permView := createPermission(t, db, constants.PermResumeView)
	permEdit := createPermission(t, db, constants.PermResumeEdit)
	viewer := createRoleWithPermissions(t, db, constants.RoleViewer, permView)
	editor := createRoleWithPermissions(t, db, constants.RoleEditor, permView, permEdit)

	user := &models.User{
		Email:           "alice@example.com",
		PasswordHash:    "hash",
		Status:          constants.UserStatusActive,
		MainRoleID:      &viewer.ID,
		AdditionalRoles: []models.Role{*editor},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	perms, err := svc.EffectivePermissions(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("effective permissions failed: %v", err)
	}
	// 去重后按字典序
	want := []string{constants.PermResumeEdit, constants.PermResumeView}
	if len(perms) != len(want) {
		t.Fatalf("expected %v, got %v", want, perms)
	}
	for i := range want {
		if perms[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, perms)
		}
	}
}

func TestEffectivePermissionsNoRoles(t *testing.T) {
	svc, db := setupRBACServiceTest(t)

	user := &models.User{
		Email:        "norole@example.com",
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	perms, err := svc.EffectivePermissions(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("effective permissions failed: %v", err)
	}
	if len(perms) != 0 {
		t.Fatalf("expected empty permission set, got %v", perms)
	}
}

func TestEffectivePermissionsUnknownUser(t *testing.T) {
	svc, _ := setupRBACServiceTest(t)

	_, err := svc.EffectivePermissions(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHasPermission(t *testing.T) {
	svc, db := setupRBACServiceTest(t)

	permView := createPermission(t, db, constants.PermResumeView)
	viewer := createRoleWithPermissions(t, db, constants.RoleViewer, permView)
	user := &models.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
		MainRoleID:   &viewer.ID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	ok, err := svc.HasPermission(context.Background(), user.ID, constants.PermResumeView)
	if err != nil || !ok {
		t.Fatalf("expected permission granted, ok=%v err=%v", ok, err)
	}
	ok, err = svc.HasPermission(context.Background(), user.ID, constants.PermUserWrite)
	if err != nil || ok {
		t.Fatalf("expected permission denied, ok=%v err=%v", ok, err)
	}
}

func TestVisibleMenusFiltersAndOrders(t *testing.T) {
	svc, db := setupRBACServiceTest(t)

	permView := createPermission(t, db, constants.PermResumeView)
	permUserRead := createPermission(t, db, constants.PermUserRead)
	viewer := createRoleWithPermissions(t, db, constants.RoleViewer, permView)

	menus := []models.Menu{
		{Name: "用户管理", Path: "/users", SortOrder: 30, Permissions: []models.Permission{*permUserRead}},
		{Name: "首页", Path: "/dashboard", SortOrder: 10},
		{Name: "简历", Path: "/resumes", SortOrder: 20, Permissions: []models.Permission{*permView, *permUserRead}},
	}
	for i := range menus {
		if err := db.Create(&menus[i]).Error; err != nil {
			t.Fatalf("create menu failed: %v", err)
		}
	}

	user := &models.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
		MainRoleID:   &viewer.ID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	visible, err := svc.VisibleMenus(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("visible menus failed: %v", err)
	}
	// 未绑定权限的菜单对所有人可见；多权限菜单命中任意一个即可；结果按 sort_order 升序
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible menus, got %d", len(visible))
	}
	if visible[0].Name != "首页" || visible[1].Name != "简历" {
		t.Fatalf("unexpected menu order: %s, %s", visible[0].Name, visible[1].Name)
	}
}

func TestUnionPermissionsDeduplicates(t *testing.T) {
	shared := models.Permission{Name: "resume:view"}
	user := &models.User{
		MainRole: &models.Role{
			Name:        "viewer",
			Permissions: []models.Permission{shared},
		},
		AdditionalRoles: []models.Role{
			{Name: "editor", Permissions: []models.Permission{shared, {Name: "resume:edit"}}},
			{Name: "auditor", Permissions: []models.Permission{{Name: "audit:read"}}},
		},
	}

	perms := UnionPermissions(user)
	want := []string{"audit:read", "resume:edit", "resume:view"}
	if len(perms) != len(want) {
		t.Fatalf("expected %v, got %v", want, perms)
	}
	for i := range want {
		if perms[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, perms)
		}
	}
}

func TestFilterMenusEmptyPermissionsAlwaysVisible(t *testing.T) {
	menus := []models.Menu{
		{Name: "open"},
		{Name: "locked", Permissions: []models.Permission{{Name: "user:read"}}},
	}

	visible := FilterMenus(menus, nil)
	if len(visible) != 1 || visible[0].Name != "open" {
		t.Fatalf("expected only the unbound menu visible, got %v", visible)
	}
}
