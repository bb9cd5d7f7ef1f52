package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/careerbase/internal/config"
	"github.com/careerbase/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService 令牌服务
// 访问令牌与刷新令牌使用各自独立的密钥签发与校验
type TokenService struct {
	cfg *config.Config
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{cfg: cfg}
}

// AccessClaims 访问令牌声明
type AccessClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims 刷新令牌声明
// jti 保证每次签发的令牌串唯一，轮换后旧串哈希即失效
type RefreshClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken 签发访问令牌
func (s *TokenService) GenerateAccessToken(user *models.User, roleName string) (string, time.Time, error) {
	minutes := s.cfg.JWT.ExpireMinutes
	if minutes <= 0 {
		minutes = 60
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(minutes) * time.Minute)
	claims := AccessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// GenerateRefreshToken 签发刷新令牌
func (s *TokenService) GenerateRefreshToken(user *models.User) (string, time.Time, error) {
	hours := s.cfg.Refresh.ExpireHours
	if hours <= 0 {
		hours = 168
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Refresh.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken 解析访问令牌；任何校验失败都拒绝
func (s *TokenService) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenString, claims, s.cfg.JWT.Secret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken 解析刷新令牌
func (s *TokenService) ParseRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims, s.cfg.Refresh.Secret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) parse(tokenString string, claims jwt.Claims, secret string) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

// HashRefreshToken 计算刷新令牌的存储哈希（SHA-256 十六进制）
// 确定性哈希使得轮换可以用条件更新做比较交换
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
