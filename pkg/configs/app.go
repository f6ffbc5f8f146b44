package configs

import (
	"github.com/spf13/viper"
)

// AppConfig 应用配置
type AppConfig struct {
	Name    string      `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
	Debug   bool        `mapstructure:"debug" json:"debug" yaml:"debug" toml:"debug"`
	Verbose bool        `mapstructure:"verbose" json:"verbose" yaml:"verbose" toml:"verbose"`
	Quiet   bool        `mapstructure:"quiet" json:"quiet" yaml:"quiet" toml:"quiet"` // 安静模式，禁止所有日志输出
	Watch   WatchConfig `mapstructure:"watch" json:"watch" yaml:"watch" toml:"watch"`
}

// WatchConfig --watch 模式的配置
// 被扫描排除的目录（.git、构建产物等）不会触发重新分析
type WatchConfig struct {
	Debounce       int      `mapstructure:"debounce" json:"debounce" yaml:"debounce" toml:"debounce"` // 防抖时间，毫秒
	IgnorePatterns []string `mapstructure:"ignore_patterns" json:"ignore_patterns" yaml:"ignore_patterns" toml:"ignore_patterns"`
}

func setAppConfigDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "codetree")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.verbose", false)
	v.SetDefault("app.quiet", false)

	v.SetDefault("app.watch.debounce", 500) // 毫秒
	v.SetDefault("app.watch.ignore_patterns", []string{
		"*.tmp",
		"*.swp",
		"*~",
	})
}
