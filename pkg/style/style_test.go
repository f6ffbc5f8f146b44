package style

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTree_PlainOutsideTerminal(t *testing.T) {
	var buf bytes.Buffer
	root := TreeNode{Text: "demo", Tone: ToneAccent, Children: []TreeNode{
		{Text: "a.go", Detail: "(3 lines)"},
		{Text: "src", Tone: ToneAccent, Children: []TreeNode{{Text: "main.rs"}}},
	}}
	require.NoError(t, PrintTree(&buf, root))

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.True(t, strings.HasPrefix(out, "demo\n"))
	assert.Contains(t, out, "├── a.go (3 lines)")
	assert.Contains(t, out, "└── src")
	assert.Contains(t, out, "└── main.rs")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{{"Go", "12"}, {strings.Repeat("x", MaxCellWidth+10), "3"}}
	require.NoError(t, PrintTable(&buf, []string{"language", "files"}, rows, 0))

	out := buf.String()
	assert.Contains(t, out, "LANGUAGE")
	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, strings.Repeat("x", MaxCellWidth+1))
}

func TestIsNumeric(t *testing.T) {
	for _, s := range []string{"12", "1,024", "81.3%", "4.0 KiB"} {
		assert.True(t, isNumeric(s), s)
	}
	for _, s := range []string{"", "Go", "(none)"} {
		assert.False(t, isNumeric(s), s)
	}
}

func TestPrintKeyValues_AlignsByDisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintKeyValues(&buf, []KeyValue{
		{Key: "文件", Value: "2"},
		{Key: "Lines", Value: "16"},
	}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  文件   2", lines[0])
	assert.Equal(t, "  Lines  16", lines[1])
}

func TestPrintHighlighted_Passthrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"files": 2}))
	assert.Equal(t, "{\n  \"files\": 2\n}\n", buf.String())
}

func TestSpinner_NoTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "scanning")
	s.Start()
	s.Stop()
	s.Stop()
	assert.Empty(t, buf.String())
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s := NewSpinner(&bytes.Buffer{}, "scanning")
		s.Stop()
		s.Stop()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked when Start was never called")
	}
}
