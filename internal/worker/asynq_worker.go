package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/careerbase/internal/logger"
	"github.com/careerbase/internal/provider"
	"github.com/careerbase/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskVerificationEmail, c.handleVerificationEmail)
	mux.HandleFunc(queue.TaskPasswordResetEmail, c.handlePasswordResetEmail)
}

func (c *Consumer) handleVerificationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_verification_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.VerificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_verification_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Token == "" {
		logger.Debugw("worker_verification_email_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	// 令牌可能已被新的重发请求覆盖，过期校验在验证接口完成
	if c.EmailService == nil {
		logger.Warnw("worker_verification_email_skip_email_service_nil", "user_id", payload.UserID)
		return nil
	}
	if err := c.EmailService.SendVerificationEmail(email, payload.Token); err != nil {
		logger.Warnw("worker_verification_email_send_failed",
			"user_id", payload.UserID,
			"receiver_email", email,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handlePasswordResetEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_password_reset_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PasswordResetEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_password_reset_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Token == "" {
		logger.Debugw("worker_password_reset_email_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_password_reset_email_skip_email_service_nil", "user_id", payload.UserID)
		return nil
	}
	if err := c.EmailService.SendPasswordResetEmail(email, payload.Token); err != nil {
		logger.Warnw("worker_password_reset_email_send_failed",
			"user_id", payload.UserID,
			"receiver_email", email,
			"error", err,
		)
		return err
	}
	return nil
}
