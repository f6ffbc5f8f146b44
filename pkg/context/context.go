// Package context 组合一次命令执行所需的配置与日志记录器
package context

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/yeisme/codetree/pkg/configs"
	"github.com/yeisme/codetree/pkg/utils/log"
)

// CodetreeContext 贯穿命令执行的上下文
type CodetreeContext struct {
	context.Context
	Config *configs.Config // 应用配置
	Viper  *viper.Viper    // 原始配置源，供 config list 使用
	Logger log.Logger      // 日志记录器
}

// InitCodetreeContext 加载配置并初始化日志记录器
// v 通常是已经绑定了命令行标志的 viper 实例
func InitCodetreeContext(ctx context.Context, v *viper.Viper, configPath string) (*CodetreeContext, error) {
	config, err := configs.Load(v, configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := log.InitLogger(ctx, &config.Log, &config.App)
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug().Str("file", used).Msg("config loaded")
	}

	return &CodetreeContext{
		Context: ctx,
		Config:  config,
		Viper:   v,
		Logger:  logger,
	}, nil
}
