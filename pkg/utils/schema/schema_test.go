package schema

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestGenReportSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenReportSchema(&buf))

	m := decode(t, buf.Bytes())
	assert.Equal(t, SchemaID, m["$id"])

	defs, ok := m["$defs"].(map[string]any)
	require.True(t, ok)
	report, ok := defs["Report"].(map[string]any)
	require.True(t, ok)
	props, ok := report["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"root", "generated_at", "signatures", "tree", "statistics", "exclusions", "redactions", "errors"} {
		assert.Contains(t, props, key)
	}

	entry, ok := defs["Entry"].(map[string]any)
	require.True(t, ok)
	entryProps := entry["properties"].(map[string]any)
	// 绝对路径不属于报告
	assert.NotContains(t, entryProps, "AbsPath")
	assert.Contains(t, entryProps, "children")
}

func TestGenConfigSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenConfigSchema(&buf))

	m := decode(t, buf.Bytes())
	defs := m["$defs"].(map[string]any)
	scan, ok := defs["ScanConfig"].(map[string]any)
	require.True(t, ok)
	props := scan["properties"].(map[string]any)
	assert.Contains(t, props, "max_content_bytes")
	assert.Contains(t, props, "respect_gitignore")
}
