package queue

import (
	"encoding/json"

	"github.com/careerbase/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskVerificationEmail 邮箱验证邮件任务
	TaskVerificationEmail = constants.TaskVerificationEmail
	// TaskPasswordResetEmail 密码重置邮件任务
	TaskPasswordResetEmail = constants.TaskPasswordResetEmail
)

// VerificationEmailPayload 邮箱验证邮件任务载荷
// Token 为明文令牌，只随队列流转，不落库
type VerificationEmailPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// PasswordResetEmailPayload 密码重置邮件任务载荷
type PasswordResetEmailPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// NewVerificationEmailTask 创建邮箱验证邮件任务
func NewVerificationEmailTask(payload VerificationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVerificationEmail, body), nil
}

// NewPasswordResetEmailTask 创建密码重置邮件任务
func NewPasswordResetEmailTask(payload PasswordResetEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPasswordResetEmail, body), nil
}
