package log

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeisme/codetree/pkg/configs"
)

func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := consoleOut
	consoleOut = &buf
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		consoleOut = prev
		globalLogger = nil
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, parseLogLevel("TRACE"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("nonsense"))
}

func TestInitLoggerJSONConsole(t *testing.T) {
	buf := captureConsole(t)
	logCfg := configs.LogConfig{Level: "info", JSON: true, Mode: "console"}
	appCfg := configs.AppConfig{Name: "codetree"}

	logger := InitLogger(context.Background(), &logCfg, &appCfg)
	logger.Info().Str("root", "demo").Msg("scan finished")
	logger.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), `"root":"demo"`)
	assert.Contains(t, buf.String(), `"message":"scan finished"`)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Same(t, logger, GetLogger())
}

func TestInitLoggerPriority(t *testing.T) {
	buf := captureConsole(t)
	logCfg := configs.LogConfig{Level: "error", JSON: true}

	// quiet 优先于 debug
	logger := InitLogger(context.Background(), &logCfg, &configs.AppConfig{Quiet: true, Debug: true})
	logger.Error().Msg("dropped")
	assert.Empty(t, buf.String())

	InitLogger(context.Background(), &logCfg, &configs.AppConfig{Debug: true, Verbose: true})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	InitLogger(context.Background(), &logCfg, &configs.AppConfig{Verbose: true})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	InitLogger(context.Background(), &logCfg, &configs.AppConfig{})
	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}

func TestInitLoggerFileMode(t *testing.T) {
	captureConsole(t)
	path := filepath.Join(t.TempDir(), "logs", "codetree.log")
	logCfg := configs.LogConfig{Level: "info", JSON: true, Mode: "file", FilePath: path, MaxSize: 1}

	logger := InitLogger(context.Background(), &logCfg, &configs.AppConfig{})
	logger.Warn().Msg("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestWithFields(t *testing.T) {
	buf := captureConsole(t)
	InitLogger(context.Background(), &configs.LogConfig{Level: "info", JSON: true}, &configs.AppConfig{})

	WithFields(map[string]any{"files": 3}).Info().Msg("done")
	assert.Contains(t, buf.String(), `"files":3`)
}
