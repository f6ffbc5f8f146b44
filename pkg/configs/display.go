package configs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/yeisme/codetree/pkg/style"
	"gopkg.in/yaml.v3"
)

// OutputFormat 配置输出格式类型
type OutputFormat string

const (
	// FormatYAML represents the YAML output format.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON represents the JSON output format.
	FormatJSON OutputFormat = "json"
	// FormatTOML represents the TOML output format.
	FormatTOML OutputFormat = "toml"
)

// ValidFormats 返回所有有效的输出格式
func ValidFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTOML)}
}

// ParseOutputFormat 解析输出格式字符串
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported format '%s', supported formats: %s", format, strings.Join(ValidFormats(), ", "))
	}
}

// Marshal 将数据编码为指定格式
func Marshal(data any, format OutputFormat) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return nil, fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to close YAML encoder: %w", err)
		}
		return buf.Bytes(), nil

	case FormatJSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		return append(b, '\n'), nil

	case FormatTOML:
		b, err := toml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to TOML: %w", err)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// OutputData 根据指定格式输出数据，终端上带语法高亮
func OutputData(data any, format OutputFormat, out io.Writer) error {
	b, err := Marshal(data, format)
	if err != nil {
		return err
	}
	return style.PrintHighlighted(out, string(b), string(format))
}

// GetConfigSection 从 viper 实例获取指定配置段
func GetConfigSection(v *viper.Viper, section string, showAll bool) (any, error) {
	if showAll {
		// 返回完整的配置结构体（包含默认值）
		var config Config
		if err := v.Unmarshal(&config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}

		if section == "" {
			return config, nil
		}

		// 使用反射动态查找配置段
		val := reflect.ValueOf(config)
		typ := val.Type()
		lowerSection := strings.ToLower(section)

		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			tag := field.Tag.Get("mapstructure")
			if strings.ToLower(tag) == lowerSection {
				return val.Field(i).Interface(), nil
			}
		}

		return nil, fmt.Errorf("unknown configuration section: %s", section)
	}

	lowerSection := strings.ToLower(section)
	if lowerSection == "" {
		return v.AllSettings(), nil
	}

	if v.IsSet(lowerSection) {
		return v.Get(lowerSection), nil
	}

	return nil, fmt.Errorf("unknown or unset configuration section %s", section)
}

// DefaultConfig 返回只包含默认值的配置
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// 默认值全部来自 setDefaults，不会解析失败
	_ = v.Unmarshal(&config)
	return config
}

// WriteDefaultConfig 将默认配置写入 path，格式由扩展名决定
// 文件已存在且 force 为 false 时返回错误
func WriteDefaultConfig(path string, force bool) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	format, err := ParseOutputFormat(ext)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
		}
	}

	b, err := Marshal(DefaultConfig(), format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
