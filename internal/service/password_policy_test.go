package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/careerbase/internal/config"
)

func TestValidatePasswordRules(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	cases := []struct {
		name     string
		password string
		wantWeak bool
	}{
		{"ok", "Passw0rd123", false},
		{"too short", "Pa1", true},
		{"no upper", "passw0rd123", true},
		{"no lower", "PASSW0RD123", true},
		{"no number", "Passwordabc", true},
		{"unicode counts runes", "Pass0密码密码", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password)
			if tc.wantWeak && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword, got %v", err)
			}
			if !tc.wantWeak && err != nil {
				t.Fatalf("expected valid password, got %v", err)
			}
		})
	}
}

func TestValidatePasswordEmptyPolicy(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
}

func TestValidatePasswordSpecialRequired(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireSpecial: true}
	if err := validatePassword(policy, "password1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword without special char, got %v", err)
	}
	if err := validatePassword(policy, "password1!"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
}

func TestPasswordPolicyErrorExposesReason(t *testing.T) {
	err := validatePassword(config.PasswordPolicyConfig{MinLength: 10}, "short")
	var policyErr passwordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected passwordPolicyError, got %T", err)
	}
	if policyErr.Reason() == "" {
		t.Fatal("expected a non-empty reason")
	}
}

func TestPasswordHasherRoundTrip(t *testing.T) {
	hasher := NewPasswordHasher(2)
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "Passw0rd123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "Passw0rd123" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := hasher.Compare(ctx, hash, "Passw0rd123"); err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if err := hasher.Compare(ctx, hash, "WrongPass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordHasherRespectsCancelledContext(t *testing.T) {
	hasher := NewPasswordHasher(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := hasher.Hash(ctx, "Passw0rd123"); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}

func TestPasswordHasherConcurrent(t *testing.T) {
	hasher := NewPasswordHasher(2)
	ctx := context.Background()

	var wg sync.WaitGroup
	errCh := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := hasher.Hash(ctx, "Passw0rd123")
			if err != nil {
				errCh <- err
				return
			}
			errCh <- hasher.Compare(ctx, hash, "Passw0rd123")
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent hash/compare failed: %v", err)
		}
	}
}
