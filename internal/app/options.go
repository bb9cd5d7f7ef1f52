package app

import (
	"os"
	"time"

	"github.com/careerbase/internal/config"
	"github.com/careerbase/internal/logger"

	"go.uber.org/zap"
)

// 进程运行模式：api 只挂接口，worker 只消费邮件队列，all 同进程跑两者
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 进程启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 填充缺省值，后续流程拿到的选项总是可用的
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
