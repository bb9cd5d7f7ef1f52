package service

import (
	"errors"
	"testing"

	"github.com/careerbase/internal/config"
	"github.com/careerbase/internal/constants"
)

func imageCaptchaConfig() config.CaptchaConfig {
	return config.CaptchaConfig{
		Provider: "image",
		Scenes: config.CaptchaSceneConfig{
			Signup:         true,
			ForgotPassword: false,
		},
		Image: config.CaptchaImageConfig{
			Length: 4,
			Width:  240,
			Height: 80,
		},
	}
}

func TestCaptchaEnabledPerScene(t *testing.T) {
	svc := NewCaptchaService(imageCaptchaConfig())

	if !svc.Enabled(constants.CaptchaSceneSignup) {
		t.Fatal("expected signup scene enabled")
	}
	if svc.Enabled(constants.CaptchaSceneForgotPassword) {
		t.Fatal("expected forgot password scene disabled")
	}
	if svc.Enabled("unknown") {
		t.Fatal("unknown scene must be disabled")
	}

	off := NewCaptchaService(config.CaptchaConfig{Provider: "none"})
	if off.Enabled(constants.CaptchaSceneSignup) {
		t.Fatal("provider none must disable all scenes")
	}
}

func TestCaptchaVerifyPassThroughWhenDisabled(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "none"})

	if err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("disabled scene must pass through, got %v", err)
	}
}

func TestCaptchaVerifyRequiresPayload(t *testing.T) {
	svc := NewCaptchaService(imageCaptchaConfig())

	err := svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{})
	if !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}

	err = svc.Verify(constants.CaptchaSceneSignup, CaptchaVerifyPayload{
		CaptchaID:   "some-id",
		CaptchaCode: "wrong",
	})
	if !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected ErrCaptchaInvalid, got %v", err)
	}
}

func TestCaptchaGenerateImageChallenge(t *testing.T) {
	svc := NewCaptchaService(imageCaptchaConfig())

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatal("expected non-empty challenge")
	}

	off := NewCaptchaService(config.CaptchaConfig{Provider: "none"})
	if _, err := off.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaConfigInvalid) {
		t.Fatalf("expected ErrCaptchaConfigInvalid, got %v", err)
	}
}
