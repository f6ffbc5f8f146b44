// Package version 提供 codetree 的版本信息
//
// 发布构建通过 -ldflags "-X" 注入这些变量；go install 安装的二进制
// 没有注入时，从 runtime/debug.ReadBuildInfo 中补全
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// Version is the current version of the application
	Version = "dev"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
	// BuildDate is when the binary was built
	BuildDate = "unknown"
	// Modified indicates if the source tree was modified (string: "true" or "false")
	Modified = "false"
	// ModSum is the module checksum
	ModSum = "unknown"
)

// Info contains version information
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
	Modified  string `json:"modified" yaml:"modified"`
	ModSum    string `json:"mod_sum" yaml:"mod_sum"`
}

// readBuildInfo 可在测试中替换
var readBuildInfo = debug.ReadBuildInfo

// GetVersion 返回版本信息，未注入的字段尽量用构建信息补全
func GetVersion() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Modified:  Modified,
		ModSum:    ModSum,
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	if info.ModSum == "unknown" && bi.Main.Sum != "" {
		info.ModSum = bi.Main.Sum
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			if Modified == "false" {
				info.Modified = s.Value
			}
		}
	}
	return info
}

// GetVersionString returns a formatted version string similar to golangci-lint
func GetVersionString() string {
	info := GetVersion()
	return fmt.Sprintf("codetree has version %s built with %s from %s (%s, modified: %s, mod sum: %q) on %s",
		info.Version,
		info.GoVersion,
		info.GitCommit,
		info.Platform,
		info.Modified,
		info.ModSum,
		info.BuildDate,
	)
}

// GetShortVersionString returns a short version string similar to gh
func GetShortVersionString() string {
	info := GetVersion()

	dateStr := info.BuildDate
	if buildTime, err := time.Parse(time.RFC3339, info.BuildDate); err == nil {
		dateStr = buildTime.Format("2006-01-02")
	}

	return fmt.Sprintf("codetree version %s (%s)\nhttps://github.com/yeisme/codetree/releases/tag/v%s",
		info.Version,
		dateStr,
		info.Version,
	)
}
