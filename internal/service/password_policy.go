package service

import (
	"fmt"
	"unicode"

	"github.com/careerbase/internal/config"
)

type passwordPolicyError struct {
	reason string
}

func (e passwordPolicyError) Error() string {
	return fmt.Sprintf("密码强度不足: %s", e.reason)
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Reason() string {
	return e.reason
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength <= 0 &&
		!policy.RequireUpper &&
		!policy.RequireLower &&
		!policy.RequireNumber &&
		!policy.RequireSpecial {
		return nil
	}

	if policy.MinLength > 0 {
		if len([]rune(password)) < policy.MinLength {
			return passwordPolicyError{reason: fmt.Sprintf("长度不足 %d 位", policy.MinLength)}
		}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return passwordPolicyError{reason: "缺少大写字母"}
	}
	if policy.RequireLower && !hasLower {
		return passwordPolicyError{reason: "缺少小写字母"}
	}
	if policy.RequireNumber && !hasNumber {
		return passwordPolicyError{reason: "缺少数字"}
	}
	if policy.RequireSpecial && !hasSpecial {
		return passwordPolicyError{reason: "缺少特殊字符"}
	}

	return nil
}
