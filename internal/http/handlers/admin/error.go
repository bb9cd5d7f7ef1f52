package admin

import (
	"errors"

	handlershared "github.com/careerbase/internal/http/handlers/shared"
	"github.com/careerbase/internal/http/response"
	"github.com/careerbase/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondServiceError 管理端统一的业务错误映射
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "资源不存在", nil)
	case errors.Is(err, service.ErrNameExists):
		respondError(c, response.CodeConflict, "名称已存在", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "参数无效", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	return handlershared.ParseUintParam(c, "id")
}
