package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/careerbase/internal/config"
	"github.com/careerbase/internal/constants"
	"github.com/careerbase/internal/logger"
	"github.com/careerbase/internal/models"
	"github.com/careerbase/internal/repository"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// OAuthProfile 提供方返回的用户画像
type OAuthProfile struct {
	Provider    string
	ProviderUID string
	Email       string
	DisplayName string
	AvatarURL   string
}

// OAuthService 第三方登录服务
// 身份表按 (provider, provider_uid) 定位；提供方返回邮箱时自动关联已有账号
type OAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	identityRepo repository.IdentityRepository
	roleRepo     repository.RoleRepository
	httpClient   *http.Client
}

// NewOAuthService 创建第三方登录服务
func NewOAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	identityRepo repository.IdentityRepository,
	roleRepo repository.RoleRepository,
) *OAuthService {
	return &OAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		identityRepo: identityRepo,
		roleRepo:     roleRepo,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL 生成提供方的授权跳转地址
func (s *OAuthService) AuthCodeURL(provider, state string) (string, error) {
	conf, err := s.providerConfig(provider)
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// HandleCallback 用授权码换取用户画像并定位/创建本地用户
func (s *OAuthService) HandleCallback(ctx context.Context, provider, code string) (*models.User, error) {
	conf, err := s.providerConfig(provider)
	if err != nil {
		return nil, err
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		logger.Warnw("oauth_code_exchange_failed", "provider", provider, "error", err)
		return nil, ErrTokenInvalid
	}

	profile, err := s.fetchProfile(ctx, conf, provider, token)
	if err != nil {
		return nil, err
	}

	return s.resolveUser(ctx, profile)
}

// resolveUser 第三方画像映射到本地用户
// 重复回调幂等：已绑定身份直接返回对应用户
func (s *OAuthService) resolveUser(ctx context.Context, profile *OAuthProfile) (*models.User, error) {
	identity, err := s.identityRepo.GetByProvider(profile.Provider, profile.ProviderUID)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		user, err := s.userRepo.GetByID(identity.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		if !user.IsActive() {
			return nil, ErrUserDisabled
		}
		return user, nil
	}

	var user *models.User
	if profile.Email != "" {
		normalized, err := normalizeEmail(profile.Email)
		if err == nil {
			user, err = s.userRepo.GetByEmail(normalized)
			if err != nil {
				return nil, err
			}
		}
	}

	if user == nil {
		user, err = s.createUserFromProfile(ctx, profile)
		if err != nil {
			return nil, err
		}
	} else if !user.IsActive() {
		return nil, ErrUserDisabled
	}

	newIdentity := &models.UserIdentity{
		UserID:      user.ID,
		Provider:    profile.Provider,
		ProviderUID: profile.ProviderUID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
	}
	if err := s.identityRepo.Create(newIdentity); err != nil {
		// 并发回调撞上唯一索引，重新按身份取用户
		existing, getErr := s.identityRepo.GetByProvider(profile.Provider, profile.ProviderUID)
		if getErr == nil && existing != nil {
			return s.userRepo.GetByID(existing.UserID)
		}
		return nil, err
	}

	return user, nil
}

func (s *OAuthService) createUserFromProfile(ctx context.Context, profile *OAuthProfile) (*models.User, error) {
	if profile.Email == "" {
		return nil, ErrOAuthEmailMissing
	}
	normalized, err := normalizeEmail(profile.Email)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(profile.DisplayName)
	if displayName == "" {
		displayName = resolveNicknameFromEmail(normalized)
	}

	// 第三方账号的邮箱由提供方担保，视为已验证
	now := time.Now()
	user := &models.User{
		Email:           normalized,
		PasswordHash:    "!",
		DisplayName:     displayName,
		AvatarURL:       profile.AvatarURL,
		Status:          constants.UserStatusActive,
		EmailVerifiedAt: &now,
	}
	if role, err := s.roleRepo.GetByName(constants.RoleViewer); err == nil && role != nil {
		user.MainRoleID = &role.ID
	}

	created, err := s.userRepo.CreateIfEmailFree(user)
	if err != nil {
		return nil, err
	}
	if !created {
		// 并发注册抢先占用邮箱，回查后复用
		return s.userRepo.GetByEmail(normalized)
	}
	return user, nil
}

func (s *OAuthService) providerConfig(provider string) (*oauth2.Config, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case constants.OAuthProviderGoogle:
		p := s.cfg.OAuth.Google
		if !p.Enabled {
			return nil, ErrOAuthProvider
		}
		return &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}, nil
	case constants.OAuthProviderGithub:
		p := s.cfg.OAuth.Github
		if !p.Enabled {
			return nil, ErrOAuthProvider
		}
		return &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}, nil
	default:
		return nil, ErrOAuthProvider
	}
}

func (s *OAuthService) fetchProfile(ctx context.Context, conf *oauth2.Config, provider string, token *oauth2.Token) (*OAuthProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	client := conf.Client(ctx, token)

	switch strings.ToLower(strings.TrimSpace(provider)) {
	case constants.OAuthProviderGoogle:
		return fetchGoogleProfile(client)
	case constants.OAuthProviderGithub:
		return fetchGithubProfile(client)
	default:
		return nil, ErrOAuthProvider
	}
}

func fetchGoogleProfile(client *http.Client) (*OAuthProfile, error) {
	var payload struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(client, "https://openidconnect.googleapis.com/v1/userinfo", &payload); err != nil {
		return nil, err
	}
	if payload.Sub == "" {
		return nil, ErrTokenInvalid
	}
	return &OAuthProfile{
		Provider:    constants.OAuthProviderGoogle,
		ProviderUID: payload.Sub,
		Email:       payload.Email,
		DisplayName: payload.Name,
		AvatarURL:   payload.Picture,
	}, nil
}

func fetchGithubProfile(client *http.Client) (*OAuthProfile, error) {
	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(client, "https://api.github.com/user", &payload); err != nil {
		return nil, err
	}
	if payload.ID == 0 {
		return nil, ErrTokenInvalid
	}

	email := payload.Email
	if email == "" {
		// 主邮箱可能不公开，需要单独调 emails 接口
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(client, "https://api.github.com/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	displayName := payload.Name
	if displayName == "" {
		displayName = payload.Login
	}
	return &OAuthProfile{
		Provider:    constants.OAuthProviderGithub,
		ProviderUID: fmt.Sprintf("%d", payload.ID),
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   payload.AvatarURL,
	}, nil
}

func getJSON(client *http.Client, url string, dest interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oauth profile request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
