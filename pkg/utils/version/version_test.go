package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = prev })
}

func TestGetVersion_FromBuildInfo(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/yeisme/codetree", Version: "v1.2.3", Sum: "h1:abc="},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2025-03-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := GetVersion()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "deadbeef", info.GitCommit)
	assert.Equal(t, "2025-03-01T10:00:00Z", info.BuildDate)
	assert.Equal(t, "true", info.Modified)
	assert.Equal(t, "h1:abc=", info.ModSum)

	assert.Equal(t, "codetree version 1.2.3 (2025-03-01)\nhttps://github.com/yeisme/codetree/releases/tag/v1.2.3", GetShortVersionString())
	assert.Contains(t, GetVersionString(), "from deadbeef")
}

func TestGetVersion_LdflagsWin(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "deadbeef"}},
	})
	prevVersion, prevCommit := Version, GitCommit
	Version, GitCommit = "2.0.0", "cafebabe"
	t.Cleanup(func() { Version, GitCommit = prevVersion, prevCommit })

	info := GetVersion()
	assert.Equal(t, "2.0.0", info.Version)
	assert.Equal(t, "cafebabe", info.GitCommit)
}

func TestGetVersion_NoBuildInfo(t *testing.T) {
	withBuildInfo(t, nil)
	info := GetVersion()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, "unknown", info.BuildDate)
	assert.Contains(t, GetShortVersionString(), "(unknown)")
}
