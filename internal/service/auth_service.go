package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/careerbase/internal/cache"
	"github.com/careerbase/internal/config"
	"github.com/careerbase/internal/constants"
	"github.com/careerbase/internal/logger"
	"github.com/careerbase/internal/models"
	"github.com/careerbase/internal/queue"
	"github.com/careerbase/internal/repository"
)

// AuthService 用户认证服务
// 登录、注册、令牌轮换、邮箱验证与密码找回
type AuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	hasher      *PasswordHasher
	tokens      *TokenService
	queueClient *queue.Client
}

// NewAuthService 创建认证服务
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	hasher *PasswordHasher,
	tokens *TokenService,
	queueClient *queue.Client,
) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		hasher:      hasher,
		tokens:      tokens,
		queueClient: queueClient,
	}
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// SignupInput 注册参数
type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
}

// ValidateCredentials 校验登录凭证
// 用户不存在与密码错误返回同一个错误，不暴露账号是否注册
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(ctx, user.PasswordHash, password); err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrUserDisabled
	}
	if !user.IsEmailVerified() {
		return nil, ErrEmailNotVerified
	}
	return user, nil
}

// Login 用户登录，签发令牌对并轮换刷新令牌
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{
		"refresh_token_hash": HashRefreshToken(pair.RefreshToken),
		"last_login_at":      now,
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return nil, nil, err
	}
	user.LastLoginAt = &now
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))

	return user, pair, nil
}

// Signup 用户注册
// 邮箱占用检查与写入在同一事务内，竞态下只有一方成功。
// 自动验证开启时注册即登录，与 Login 一致签发并落库令牌对；
// 待验证用户不发令牌，验证完成前登录同样会被拒绝
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, *TokenPair, error) {
	normalized, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, in.Password); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, nil, err
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = resolveNicknameFromEmail(normalized)
	}

	user := &models.User{
		Email:        normalized,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		Status:       constants.UserStatusActive,
	}

	if role, err := s.roleRepo.GetByName(constants.RoleViewer); err == nil && role != nil {
		user.MainRoleID = &role.ID
	}

	var verifyToken string
	if s.cfg.Auth.AutoVerifyEmail {
		now := time.Now()
		user.EmailVerifiedAt = &now
	} else {
		plaintext, hash, err := newOpaqueToken()
		if err != nil {
			return nil, nil, err
		}
		expiresAt := time.Now().Add(s.verificationTokenTTL())
		user.VerificationTokenHash = hash
		user.VerificationTokenExpiresAt = &expiresAt
		verifyToken = plaintext
	}

	created, err := s.userRepo.CreateIfEmailFree(user)
	if err != nil {
		return nil, nil, err
	}
	if !created {
		return nil, nil, ErrEmailExists
	}

	if verifyToken != "" {
		s.enqueueVerificationEmail(user, verifyToken)
		return user, nil, nil
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	fields := map[string]interface{}{
		"refresh_token_hash": HashRefreshToken(pair.RefreshToken),
		"last_login_at":      now,
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return nil, nil, err
	}
	user.LastLoginAt = &now
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))

	return user, pair, nil
}

// Refresh 刷新令牌轮换
// 比较交换保证同一个刷新令牌只能兑换一次
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrTokenInvalid
	}
	if !user.IsActive() {
		return nil, nil, ErrUserDisabled
	}

	oldHash := HashRefreshToken(refreshToken)
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != oldHash {
		return nil, nil, ErrTokenInvalid
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	rotated, err := s.userRepo.RotateRefreshToken(user.ID, oldHash, HashRefreshToken(pair.RefreshToken))
	if err != nil {
		return nil, nil, err
	}
	if !rotated {
		// 并发刷新时另一请求已消费该令牌
		return nil, nil, ErrTokenInvalid
	}

	return user, pair, nil
}

// Logout 登出，作废当前刷新令牌
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.ClearRefreshToken(userID); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

// RequestPasswordReset 发起密码重置
// 用户不存在返回 ErrNotFound，由处理器统一伪装成成功，避免探测
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return ErrNotFound
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	plaintext, hash, err := newOpaqueToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.resetTokenTTL())
	fields := map[string]interface{}{
		"reset_token_hash":       hash,
		"reset_token_expires_at": expiresAt,
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return err
	}

	if err := s.queueClient.EnqueuePasswordResetEmail(queue.PasswordResetEmailPayload{
		UserID: user.ID,
		Email:  user.Email,
		Token:  plaintext,
	}); err != nil {
		logger.Warnw("password_reset_email_enqueue_failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword 凭重置令牌设置新密码
// 令牌一次性消费，成功后同时作废刷新令牌
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	candidates, err := s.userRepo.ListWithResetToken()
	if err != nil {
		return err
	}
	user := findTokenOwner(candidates, token, func(u *models.User) string {
		return u.ResetTokenHash
	})
	if user == nil {
		return ErrTokenInvalid
	}
	// 先匹配后查过期，已过期的合法令牌要与无效令牌区分开
	if tokenExpired(user.ResetTokenExpiresAt) {
		return ErrTokenExpired
	}

	hashedPassword, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"password_hash":          hashedPassword,
		"reset_token_hash":       "",
		"reset_token_expires_at": nil,
		"refresh_token_hash":     "",
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// ChangePassword 已登录用户修改密码
// 成功后作废刷新令牌，所有会话需重新登录
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := s.hasher.Compare(ctx, user.PasswordHash, oldPassword); err != nil {
		return err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{
		"password_hash":      hashedPassword,
		"refresh_token_hash": "",
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// VerifyEmail 凭验证令牌标记邮箱已验证
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	candidates, err := s.userRepo.ListWithVerificationToken()
	if err != nil {
		return err
	}
	user := findTokenOwner(candidates, token, func(u *models.User) string {
		return u.VerificationTokenHash
	})
	if user == nil {
		return ErrTokenInvalid
	}
	if tokenExpired(user.VerificationTokenExpiresAt) {
		return ErrTokenExpired
	}
	if user.IsEmailVerified() {
		return ErrAlreadyVerified
	}

	now := time.Now()
	fields := map[string]interface{}{
		"email_verified_at":             now,
		"verification_token_hash":       "",
		"verification_token_expires_at": nil,
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// ResendVerificationEmail 重发验证邮件
// 新令牌会覆盖旧令牌，旧邮件里的链接随之失效
func (s *AuthService) ResendVerificationEmail(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return ErrNotFound
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.IsEmailVerified() {
		return ErrAlreadyVerified
	}

	plaintext, hash, err := newOpaqueToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.verificationTokenTTL())
	fields := map[string]interface{}{
		"verification_token_hash":       hash,
		"verification_token_expires_at": expiresAt,
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return err
	}

	s.enqueueVerificationEmail(user, plaintext)
	return nil
}

// IssueTokensFor 为免密路径（第三方登录）签发令牌对
func (s *AuthService) IssueTokensFor(ctx context.Context, user *models.User) (*TokenPair, error) {
	if !user.IsActive() {
		return nil, ErrUserDisabled
	}
	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	fields := map[string]interface{}{
		"refresh_token_hash": HashRefreshToken(pair.RefreshToken),
		"last_login_at":      now,
	}
	if err := s.userRepo.UpdateFields(user.ID, fields); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return pair, nil
}

func (s *AuthService) issueTokenPair(user *models.User) (*TokenPair, error) {
	access, accessExp, err := s.tokens.GenerateAccessToken(user, s.primaryRoleName(user))
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) primaryRoleName(user *models.User) string {
	if user.MainRole != nil {
		return user.MainRole.Name
	}
	if user.MainRoleID != nil {
		if role, err := s.roleRepo.GetByID(*user.MainRoleID); err == nil && role != nil {
			return role.Name
		}
	}
	return ""
}

func (s *AuthService) enqueueVerificationEmail(user *models.User, token string) {
	err := s.queueClient.EnqueueVerificationEmail(queue.VerificationEmailPayload{
		UserID: user.ID,
		Email:  user.Email,
		Token:  token,
	})
	if err != nil {
		logger.Warnw("verification_email_enqueue_failed", "user_id", user.ID, "error", err)
	}
}

func (s *AuthService) verificationTokenTTL() time.Duration {
	hours := s.cfg.Auth.VerificationTokenExpireHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (s *AuthService) resetTokenTTL() time.Duration {
	minutes := s.cfg.Auth.ResetTokenExpireMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func resolveNicknameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:at]
}
