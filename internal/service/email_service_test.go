package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/careerbase/internal/config"
)

func TestBuildLinkEscapesToken(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{}, "https://app.example.com/")

	link := svc.buildLink("/verify-email", "token with spaces&=")
	if !strings.HasPrefix(link, "https://app.example.com/verify-email?token=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, " ") || strings.Contains(link, "&=") {
		t.Fatalf("token not escaped: %s", link)
	}
	// 末尾斜杠不应产生双斜杠
	if strings.Contains(link, "com//") {
		t.Fatalf("double slash in link: %s", link)
	}
}

func TestSendEmailWhenNotConfigured(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false}, "https://app.example.com")

	if err := svc.SendVerificationEmail("alice@example.com", "token"); !errors.Is(err, ErrEmailNotConfigured) {
		t.Fatalf("expected ErrEmailNotConfigured, got %v", err)
	}
	if err := svc.SendPasswordResetEmail("alice@example.com", "token"); !errors.Is(err, ErrEmailNotConfigured) {
		t.Fatalf("expected ErrEmailNotConfigured, got %v", err)
	}
}

func TestSendEmailRejectsInvalidRecipient(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
	}, "https://app.example.com")

	if err := svc.sendTextEmail("not-an-address", "subject", "body"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestBuildEmailMessageHeaders(t *testing.T) {
	from := buildFromAddress("noreply@example.com", "CareerBase")
	msg := buildEmailMessage(from, "alice@example.com", "验证你的邮箱", "正文")

	if !strings.Contains(msg, "To: alice@example.com") {
		t.Fatalf("missing To header: %s", msg)
	}
	if !strings.Contains(msg, "MIME-Version: 1.0") {
		t.Fatalf("missing MIME header: %s", msg)
	}
	if !strings.Contains(msg, "noreply@example.com") {
		t.Fatalf("missing from address: %s", msg)
	}
}
