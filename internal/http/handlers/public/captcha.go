package public

import (
	"github.com/careerbase/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CaptchaChallenge 生成图片验证码
func (h *Handler) CaptchaChallenge(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "验证码生成失败")
		return
	}
	response.Success(c, challenge)
}
