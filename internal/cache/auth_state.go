package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/careerbase/internal/models"
)

const authStateCacheTTL = 10 * time.Minute
const permissionCacheTTL = 5 * time.Minute

// UserAuthState 用户鉴权快照
// 中间件凭此判断账号状态，避免每个请求都查库
type UserAuthState struct {
	UserID        uint   `json:"user_id"`
	Email         string `json:"email"`
	Status        string `json:"status"`
	EmailVerified bool   `json:"email_verified"`
	UpdatedAt     int64  `json:"updated_at"`
}

// UserPermissionState 用户有效权限快照
type UserPermissionState struct {
	UserID      uint     `json:"user_id"`
	Permissions []string `json:"permissions"`
	UpdatedAt   int64    `json:"updated_at"`
}

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

func userPermissionKey(userID uint) string {
	return fmt.Sprintf("authz:perms:%d", userID)
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:        user.ID,
		Email:         user.Email,
		Status:        user.Status,
		EmailVerified: user.IsEmailVerified(),
		UpdatedAt:     time.Now().Unix(),
	}
}

// GetUserAuthState 获取用户鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入用户鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateCacheTTL)
}

// GetUserPermissions 获取用户有效权限快照
func GetUserPermissions(ctx context.Context, userID uint) ([]string, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserPermissionState
	hit, err := GetJSON(ctx, userPermissionKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return state.Permissions, true, nil
}

// SetUserPermissions 写入用户有效权限快照
func SetUserPermissions(ctx context.Context, userID uint, perms []string) error {
	if userID == 0 {
		return nil
	}
	state := UserPermissionState{
		UserID:      userID,
		Permissions: perms,
		UpdatedAt:   time.Now().Unix(),
	}
	return SetJSON(ctx, userPermissionKey(userID), &state, permissionCacheTTL)
}

// InvalidateUser 清除用户的鉴权与权限快照
// 在用户状态、角色或角色权限变化后调用
func InvalidateUser(ctx context.Context, userID uint) {
	if userID == 0 {
		return
	}
	_ = Del(ctx, userAuthStateKey(userID))
	_ = Del(ctx, userPermissionKey(userID))
}
