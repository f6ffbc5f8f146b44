package configs

import "github.com/spf13/viper"

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" json:"level" yaml:"level" toml:"level"`                         // 日志级别: trace, debug, info, warn, error, fatal, panic
	JSON       bool   `mapstructure:"json" json:"json" yaml:"json" toml:"json"`                             // 是否使用 JSON 格式输出
	Mode       string `mapstructure:"mode" json:"mode" yaml:"mode" toml:"mode"`                             // 输出模式: console, file, both
	FilePath   string `mapstructure:"file_path" json:"file_path" yaml:"file_path" toml:"file_path"`         // 文件路径（当 mode 为 file 或 both 时使用）
	MaxSize    int    `mapstructure:"max_size" json:"max_size" yaml:"max_size" toml:"max_size"`             // 日志文件最大大小（MB）
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups" toml:"max_backups"` // 保留的备份文件数量
	MaxAge     int    `mapstructure:"max_age" json:"max_age" yaml:"max_age" toml:"max_age"`                 // 文件保留天数
}

func setLogConfigDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("log.mode", "console")
	v.SetDefault("log.file_path", ".codetree/codetree.log")
	v.SetDefault("log.max_size", 100)  // MB
	v.SetDefault("log.max_backups", 3) // 保留的备份文件数量
	v.SetDefault("log.max_age", 28)    // 文件保留天数
}
