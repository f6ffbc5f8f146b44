package style

import (
	"io"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown 渲染 Markdown 文本并写入 w，用于在终端预览报告
// width<=0 时使用探测到的终端宽度，结果限制在 [80, 120]
// theme 为空时使用 "dracula"
func RenderMarkdown(w io.Writer, input string, width int, theme string) error {
	if theme == "" {
		theme = "dracula"
	}
	termWidth := detectTerminalWidth(w)
	if termWidth <= 0 {
		termWidth = 80
	}
	if width <= 0 {
		width = termWidth
	}
	width = max(width, 80)
	if width > 120 {
		width = max(80, min(120, termWidth))
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(width),
		glamour.WithInlineTableLinks(true),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(input)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}
