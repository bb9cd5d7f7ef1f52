package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/careerbase/internal/constants"
	"github.com/careerbase/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserRepositoryTest(t *testing.T) (*GormUserRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewUserRepository(db), db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func TestGetByEmailNormalizesCase(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	seedUser(t, db, "alice@example.com")

	user, err := repo.GetByEmail("  ALICE@example.com ")
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected user found")
	}
}

func TestGetByEmailNotFoundReturnsNil(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)

	user, err := repo.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Fatal("expected nil for missing user")
	}
}

func TestCreateIfEmailFree(t *testing.T) {
	repo, _ := setupUserRepositoryTest(t)

	first := &models.User{Email: "alice@example.com", PasswordHash: "hash", Status: constants.UserStatusActive}
	created, err := repo.CreateIfEmailFree(first)
	if err != nil || !created {
		t.Fatalf("expected first create to succeed, created=%v err=%v", created, err)
	}

	second := &models.User{Email: "alice@example.com", PasswordHash: "hash2", Status: constants.UserStatusActive}
	created, err = repo.CreateIfEmailFree(second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected duplicate email rejected")
	}
}

func TestRotateRefreshTokenCompareAndSwap(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	user := seedUser(t, db, "alice@example.com")

	if err := repo.UpdateFields(user.ID, map[string]interface{}{"refresh_token_hash": "hash-a"}); err != nil {
		t.Fatalf("store hash failed: %v", err)
	}

	rotated, err := repo.RotateRefreshToken(user.ID, "hash-a", "hash-b")
	if err != nil || !rotated {
		t.Fatalf("expected rotation to succeed, rotated=%v err=%v", rotated, err)
	}

	// 旧哈希已被替换，再次以旧值轮换必须失败
	rotated, err = repo.RotateRefreshToken(user.ID, "hash-a", "hash-c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rotated {
		t.Fatal("expected stale hash rotation to fail")
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if stored.RefreshTokenHash != "hash-b" {
		t.Fatalf("expected hash-b, got %q", stored.RefreshTokenHash)
	}
}

func TestClearRefreshToken(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	user := seedUser(t, db, "alice@example.com")
	if err := repo.UpdateFields(user.ID, map[string]interface{}{"refresh_token_hash": "hash-a"}); err != nil {
		t.Fatalf("store hash failed: %v", err)
	}

	if err := repo.ClearRefreshToken(user.ID); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if stored.RefreshTokenHash != "" {
		t.Fatal("expected refresh hash cleared")
	}
}

func TestListWithResetTokenIncludesExpired(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	now := time.Now()

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)
	pending := seedUser(t, db, "pending@example.com")
	expired := seedUser(t, db, "expired@example.com")
	seedUser(t, db, "none@example.com")
	if err := repo.UpdateFields(pending.ID, map[string]interface{}{
		"reset_token_hash":       "hash-pending",
		"reset_token_expires_at": future,
	}); err != nil {
		t.Fatalf("update pending failed: %v", err)
	}
	if err := repo.UpdateFields(expired.ID, map[string]interface{}{
		"reset_token_hash":       "hash-expired",
		"reset_token_expires_at": past,
	}); err != nil {
		t.Fatalf("update expired failed: %v", err)
	}

	// 已过期的记录也在候选集里，过期与无效的区分由服务层做
	users, err := repo.ListWithResetToken()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected pending and expired users, got %d rows", len(users))
	}
	ids := map[uint]bool{}
	for _, u := range users {
		ids[u.ID] = true
	}
	if !ids[pending.ID] || !ids[expired.ID] {
		t.Fatalf("expected users %d and %d, got %v", pending.ID, expired.ID, ids)
	}
}

func TestGetByIDWithRolesPreloadsPermissions(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)

	perm := models.Permission{Name: "resume:view"}
	if err := db.Create(&perm).Error; err != nil {
		t.Fatalf("create permission failed: %v", err)
	}
	main := models.Role{Name: "viewer", Permissions: []models.Permission{perm}}
	if err := db.Create(&main).Error; err != nil {
		t.Fatalf("create main role failed: %v", err)
	}
	extra := models.Role{Name: "editor", Permissions: []models.Permission{{Name: "resume:edit"}}}
	if err := db.Create(&extra).Error; err != nil {
		t.Fatalf("create extra role failed: %v", err)
	}

	user := &models.User{
		Email:           "alice@example.com",
		PasswordHash:    "hash",
		Status:          constants.UserStatusActive,
		MainRoleID:      &main.ID,
		AdditionalRoles: []models.Role{extra},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	loaded, err := repo.GetByIDWithRoles(user.ID)
	if err != nil {
		t.Fatalf("get with roles failed: %v", err)
	}
	if loaded == nil || loaded.MainRole == nil {
		t.Fatal("expected main role preloaded")
	}
	if len(loaded.MainRole.Permissions) != 1 {
		t.Fatalf("expected main role permissions preloaded, got %d", len(loaded.MainRole.Permissions))
	}
	if len(loaded.AdditionalRoles) != 1 || len(loaded.AdditionalRoles[0].Permissions) != 1 {
		t.Fatal("expected additional role permissions preloaded")
	}
}

func TestListFiltersByRole(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)

	role := models.Role{Name: "editor"}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("create role failed: %v", err)
	}

	byMain := seedUser(t, db, "main@example.com")
	if err := db.Model(byMain).Update("main_role_id", role.ID).Error; err != nil {
		t.Fatalf("set main role failed: %v", err)
	}
	byExtra := seedUser(t, db, "extra@example.com")
	if err := db.Model(byExtra).Association("AdditionalRoles").Append(&role); err != nil {
		t.Fatalf("append role failed: %v", err)
	}
	seedUser(t, db, "none@example.com")

	users, total, err := repo.List(UserListFilter{RoleID: role.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("expected 2 users with role, got total=%d len=%d", total, len(users))
	}
}

func TestDeleteIsSoft(t *testing.T) {
	repo, db := setupUserRepositoryTest(t)
	user := seedUser(t, db, "alice@example.com")

	if err := repo.Delete(user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	loaded, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected deleted user invisible to queries")
	}

	var count int64
	if err := db.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("unscoped count failed: %v", err)
	}
	if count != 1 {
		t.Fatal("expected soft deleted row to remain")
	}
}
