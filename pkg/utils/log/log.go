// Package log 提供全局日志记录器的初始化和获取功能
// 使用 zerolog 作为日志库，支持多种输出模式（控制台、文件、两者）
//
// 控制台日志固定写到标准错误，标准输出只留给报告内容
package log

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yeisme/codetree/pkg/configs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 定义全局日志记录器类型
type Logger = *zerolog.Logger

// globalLogger 全局日志记录器实例，在 InitLogger 中初始化
var globalLogger Logger

// consoleOut 控制台日志的输出目标，测试中可替换
var consoleOut io.Writer = os.Stderr

// InitLogger 初始化日志记录器
func InitLogger(ctx context.Context, config *configs.LogConfig, appConfig *configs.AppConfig) Logger {
	// 优先级：quiet > debug > verbose > config.Level
	if appConfig.Quiet {
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
		logger := zerolog.New(io.Discard)
		globalLogger = &logger
		log.Logger = logger
		return &logger
	} else if appConfig.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if appConfig.Verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(parseLogLevel(config.Level))
	}

	var writers []io.Writer
	switch strings.ToLower(config.Mode) {
	case "file":
		writers = append(writers, createFileWriter(config))
	case "both":
		writers = append(writers, createConsoleWriter(config.JSON), createFileWriter(config))
	default:
		writers = append(writers, createConsoleWriter(config.JSON))
	}

	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = io.MultiWriter(writers...)
	}

	var logger zerolog.Logger
	if appConfig.Debug {
		logger = zerolog.New(output).With().Caller().
			Str("app", appConfig.Name).
			Ctx(ctx).Timestamp().Logger()
	} else if appConfig.Verbose {
		logger = zerolog.New(output).With().
			Str("app", appConfig.Name).
			Ctx(ctx).Timestamp().Logger()
	} else {
		logger = zerolog.New(output).With().Timestamp().Logger()
	}

	globalLogger = &logger
	log.Logger = logger
	return &logger
}

// createConsoleWriter 创建控制台输出写入器
func createConsoleWriter(useJSON bool) io.Writer {
	if useJSON {
		return consoleOut
	}
	return zerolog.ConsoleWriter{
		Out:        consoleOut,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// createFileWriter 创建文件输出写入器，目录无法创建时退回控制台
func createFileWriter(config *configs.LogConfig) io.Writer {
	logDir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return consoleOut
	}

	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,    // megabytes
		MaxBackups: config.MaxBackups, // 保留备份数量
		MaxAge:     config.MaxAge,     // days
		Compress:   true,              // 压缩旧日志文件
	}
}

// GetLogger 获取全局日志记录器，未初始化时使用默认配置
func GetLogger() Logger {
	if globalLogger == nil {
		config := configs.DefaultConfig()
		return InitLogger(context.Background(), &config.Log, &config.App)
	}
	return globalLogger
}

// parseLogLevel 解析日志级别
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithFields 带字段的日志记录
func WithFields(fields map[string]any) Logger {
	event := GetLogger().With()
	for key, value := range fields {
		event = event.Interface(key, value)
	}
	result := event.Logger()
	return &result
}

// Trace 创建一个 Trace 级别的日志事件
func Trace() *zerolog.Event {
	return GetLogger().Trace()
}

// Debug 创建一个 Debug 级别的日志事件
func Debug() *zerolog.Event {
	return GetLogger().Debug()
}

// Info 创建一个 Info 级别的日志事件
func Info() *zerolog.Event {
	return GetLogger().Info()
}

// Warn 创建一个 Warn 级别的日志事件
func Warn() *zerolog.Event {
	return GetLogger().Warn()
}

// Error 创建一个 Error 级别的日志事件
func Error() *zerolog.Event {
	return GetLogger().Error()
}
