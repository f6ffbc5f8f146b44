// Package configs 提供应用程序配置管理功能
//
// 配置来源的优先级: 命令行参数 > 环境变量 (CODETREE_*) > 配置文件 > 默认值
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 CODETREE_SCAN_CONCURRENCY
const EnvPrefix = "CODETREE"

// Config 应用配置结构
type Config struct {
	Log  LogConfig  `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
	App  AppConfig  `mapstructure:"app" json:"app" yaml:"app" toml:"app"`
	Scan ScanConfig `mapstructure:"scan" json:"scan" yaml:"scan" toml:"scan"`
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	setLogConfigDefaults(v)
	setAppConfigDefaults(v)
	setScanConfigDefaults(v)
}

// findConfigFile 在搜索路径中查找配置文件，找不到返回空字符串
func findConfigFile() string {
	searchPaths := []string{
		".",
		"./configs",
		"$HOME/.config/codetree",
	}
	if runtime.GOOS == "windows" {
		searchPaths = append(searchPaths, "$APPDATA/codetree")
	} else {
		searchPaths = append(searchPaths, "/etc/codetree")
	}

	configNames := []string{".codetree", "codetree"}
	extensions := []string{"yaml", "yml", "json", "toml"}

	for _, path := range searchPaths {
		for _, name := range configNames {
			for _, ext := range extensions {
				configFile := filepath.Join(path, name+"."+ext)
				if strings.Contains(configFile, "$") {
					configFile = os.ExpandEnv(configFile)
				}
				if info, err := os.Stat(configFile); err == nil && !info.IsDir() {
					return configFile
				}
			}
		}
	}
	return ""
}

// Load 将配置加载到 v 中并解析
// configPath 为空时按搜索路径查找配置文件，没有配置文件时只使用默认值和环境变量
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfig 使用全局 viper 实例加载配置
func LoadConfig(configPath string) (*Config, error) {
	return Load(viper.GetViper(), configPath)
}

// Validate 检查配置值是否合法
func (c *Config) Validate() error {
	var errs []error
	if c.Scan.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("scan.concurrency must not be negative, got %d", c.Scan.Concurrency))
	}
	if c.Scan.MaxContentBytes < 0 {
		errs = append(errs, fmt.Errorf("scan.max_content_bytes must not be negative, got %d", c.Scan.MaxContentBytes))
	}
	switch strings.ToLower(c.Log.Mode) {
	case "", "console", "file", "both":
	default:
		errs = append(errs, fmt.Errorf("log.mode must be one of console, file, both, got %q", c.Log.Mode))
	}
	if c.App.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("app.watch.debounce must not be negative, got %d", c.App.Watch.Debounce))
	}
	return errors.Join(errs...)
}
