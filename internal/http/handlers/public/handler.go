package public

import "github.com/careerbase/internal/provider"

// Handler 公开与用户侧接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
