package service

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher bcrypt 哈希封装
// 用带权重的信号量限制并发，避免登录洪峰把 CPU 打满
type PasswordHasher struct {
	sem  *semaphore.Weighted
	cost int
}

// NewPasswordHasher 创建密码哈希器
// workers <= 0 时取 GOMAXPROCS
func NewPasswordHasher(workers int) *PasswordHasher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &PasswordHasher{
		sem:  semaphore.NewWeighted(int64(workers)),
		cost: bcrypt.DefaultCost,
	}
}

// Hash 生成密码哈希
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare 校验密码；不匹配返回 ErrInvalidCredentials
func (h *PasswordHasher) Compare(ctx context.Context, hash, password string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
