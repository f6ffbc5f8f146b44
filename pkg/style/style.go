// Package style 提供终端与文本报告共用的样式化输出
//
// 所有输出函数都基于目标 writer 创建 lipgloss 渲染器，
// 写入文件或管道时自动退化为无颜色的纯文本
package style

import (
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	xterm "github.com/charmbracelet/x/term"
)

// 定义一套颜色，方便管理和修改
const (
	// 主题强调色，用于标题背景和目录名
	ColorAccentPrimary = lipgloss.Color("#33A1FF")

	// 在强调背景上显示的文本
	ColorAccentText = lipgloss.Color("#FFFFFF")

	// 普通文本
	ColorText = lipgloss.Color("#E4E4E4")

	// 次要信息，例如树中的大小与行数
	ColorMuted = lipgloss.Color("#8A8A8A")

	// 边框与树的连接符
	ColorBorder = lipgloss.Color("#444444")

	// 脱敏文件、错误条目
	ColorDanger = lipgloss.Color("#FF5555")

	// 符号链接、二进制文件等提示
	ColorWarning = lipgloss.Color("#DFAB49")

	// 成功
	ColorSuccess = lipgloss.Color("#22C55E")
)

// Tone 节点或文本的语义色调
type Tone int

const (
	// ToneNormal 普通文本
	ToneNormal Tone = iota
	// ToneAccent 目录等需要突出的内容
	ToneAccent
	// ToneMuted 次要信息
	ToneMuted
	// ToneWarning 提示
	ToneWarning
	// ToneDanger 敏感或出错
	ToneDanger
)

func (t Tone) style(re *lipgloss.Renderer) lipgloss.Style {
	s := re.NewStyle()
	switch t {
	case ToneAccent:
		return s.Foreground(ColorAccentPrimary).Bold(true)
	case ToneMuted:
		return s.Foreground(ColorMuted)
	case ToneWarning:
		return s.Foreground(ColorWarning)
	case ToneDanger:
		return s.Foreground(ColorDanger)
	default:
		return s.Foreground(ColorText)
	}
}

// IsTerminal 判断 writer 是否连接到终端
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && xterm.IsTerminal(f.Fd())
}

// detectTerminalWidth 尝试从 writer 获取终端宽度，writer 不是终端时返回 0
func detectTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !xterm.IsTerminal(f.Fd()) {
		return 0
	}
	if cols, _, err := xterm.GetSize(f.Fd()); err == nil && cols > 0 {
		return cols
	}
	// 某些终端只提供 COLUMNS
	if v := os.Getenv("COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
