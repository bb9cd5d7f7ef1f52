package service

import (
	"context"
	"strings"

	"github.com/careerbase/internal/models"
	"github.com/careerbase/internal/repository"
)

// UserService 用户资料服务
type UserService struct {
	userRepo     repository.UserRepository
	identityRepo repository.IdentityRepository
}

// NewUserService 创建用户资料服务
func NewUserService(userRepo repository.UserRepository, identityRepo repository.IdentityRepository) *UserService {
	return &UserService{userRepo: userRepo, identityRepo: identityRepo}
}

// Profile 个人资料视图
type Profile struct {
	User        *models.User          `json:"user"`
	Identities  []models.UserIdentity `json:"identities"`
	Permissions []string              `json:"permissions"`
}

// GetProfile 获取个人资料（含角色、权限与第三方绑定）
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByIDWithRoles(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	identities, err := s.identityRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:        user,
		Identities:  identities,
		Permissions: UnionPermissions(user),
	}, nil
}

// ProfileUpdateInput 资料更新参数
type ProfileUpdateInput struct {
	DisplayName *string
	AvatarURL   *string
}

// UpdateProfile 更新个人资料
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdateInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	fields := map[string]interface{}{}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return nil, ErrInvalidInput
		}
		fields["display_name"] = name
	}
	if in.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*in.AvatarURL)
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.userRepo.UpdateFields(userID, fields); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(userID)
}
