package configs

import (
	"github.com/spf13/viper"
)

// ScanConfig 扫描与报告输出配置
type ScanConfig struct {
	// Concurrency 扫描的并发度，0 表示使用 CPU 核数
	Concurrency int `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	// MaxContentBytes 超过该大小的文件只统计行数，不在报告中附带正文
	MaxContentBytes int64 `mapstructure:"max_content_bytes" json:"max_content_bytes" yaml:"max_content_bytes" toml:"max_content_bytes"`
	// RespectGitignore 为 true 时根目录 .gitignore 中的规则也参与排除
	RespectGitignore bool `mapstructure:"respect_gitignore" json:"respect_gitignore" yaml:"respect_gitignore" toml:"respect_gitignore"`
	// Exclude 额外的排除模式，支持 glob、目录名和路径前缀
	Exclude []string `mapstructure:"exclude" json:"exclude" yaml:"exclude" toml:"exclude"`
	// Format 报告格式: text, json, markdown, html
	Format string `mapstructure:"format" json:"format" yaml:"format" toml:"format"`
	// Output 报告文件名（不含扩展名），写在被扫描的根目录下；"-" 表示标准输出
	Output string `mapstructure:"output" json:"output" yaml:"output" toml:"output"`
	// Theme HTML 报告的代码高亮主题
	Theme string `mapstructure:"theme" json:"theme" yaml:"theme" toml:"theme"`
}

func setScanConfigDefaults(v *viper.Viper) {
	v.SetDefault("scan.concurrency", 0)
	v.SetDefault("scan.max_content_bytes", 1<<20) // 1 MiB
	v.SetDefault("scan.respect_gitignore", false)
	v.SetDefault("scan.exclude", []string{})
	v.SetDefault("scan.format", "text")
	v.SetDefault("scan.output", "codetree")
	v.SetDefault("scan.theme", "github")
}
