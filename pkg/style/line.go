package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// KeyValue 描述一行 "名称  值" 形式的信息
type KeyValue struct {
	Key   string
	Value string
	Tone  Tone
}

// PrintHeading 打印一个区块标题
func PrintHeading(w io.Writer, title string) error {
	re := lipgloss.NewRenderer(w)
	style := re.NewStyle().
		Foreground(ColorAccentText).
		Background(ColorAccentPrimary).
		Bold(true).
		Padding(0, 1)
	_, err := fmt.Fprintln(w, style.Render(strings.ToUpper(title)))
	return err
}

// PrintKeyValues 以对齐的方式打印键值列表，按显示宽度对齐以兼容中文等宽字符
func PrintKeyValues(w io.Writer, items []KeyValue) error {
	if len(items) == 0 {
		return nil
	}
	maxKey := 0
	for _, kv := range items {
		maxKey = max(maxKey, runewidth.StringWidth(kv.Key))
	}

	re := lipgloss.NewRenderer(w)
	keyStyle := re.NewStyle().Foreground(ColorAccentPrimary).Bold(true)

	for _, kv := range items {
		padding := strings.Repeat(" ", maxKey-runewidth.StringWidth(kv.Key))
		line := fmt.Sprintf("  %s%s  %s", keyStyle.Render(kv.Key), padding, kv.Tone.style(re).Render(kv.Value))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
