package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
)

// PrintList 渲染一个圆点列表到指定的 writer
// items 支持嵌套，可以传入另一个 list.New() 对象来创建子列表
func PrintList(w io.Writer, items ...any) error {
	re := lipgloss.NewRenderer(w)
	enumeratorStyle := re.NewStyle().
		Foreground(ColorAccentPrimary).
		MarginRight(1)
	itemStyle := re.NewStyle().Foreground(ColorText)

	l := list.New(items...).
		Enumerator(list.Bullet).
		EnumeratorStyle(enumeratorStyle).
		ItemStyle(itemStyle)

	_, err := fmt.Fprintln(w, l)
	return err
}
