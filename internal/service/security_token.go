package service

import (
	"time"

	"github.com/careerbase/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// newOpaqueToken 生成一次性不透明令牌
// 返回明文与 bcrypt 哈希；明文只进邮件，哈希落库
func newOpaqueToken() (string, string, error) {
	plaintext := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return plaintext, string(hash), nil
}

// matchOpaqueToken 比对明文令牌与存储哈希
func matchOpaqueToken(hash, token string) bool {
	if hash == "" || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// tokenExpired 判断一次性令牌是否已过期
// 哈希非空但缺失过期时间视为过期，不给无限期令牌留口子
func tokenExpired(expiresAt *time.Time) bool {
	return expiresAt == nil || time.Now().After(*expiresAt)
}

// findTokenOwner 在候选用户中定位令牌归属
// bcrypt 哈希不可反查，只能对候选集逐个比对
func findTokenOwner(candidates []models.User, token string, hashOf func(*models.User) string) *models.User {
	for i := range candidates {
		if matchOpaqueToken(hashOf(&candidates[i]), token) {
			return &candidates[i]
		}
	}
	return nil
}
