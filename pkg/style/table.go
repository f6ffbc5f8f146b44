package style

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

// MaxCellWidth 单元格的最大显示宽度，超出部分以省略号截断
const MaxCellWidth = 60

// PrintTable 用于标准化表格输出，支持自定义表头和内容
// width: 期望的表格宽度；width<=0 时在终端上自动探测宽度，写入文件时按内容自然宽度输出
// 数值列右对齐
func PrintTable(w io.Writer, headers []string, rows [][]string, width int) error {
	if width <= 0 {
		width = detectTerminalWidth(w)
	}

	re := lipgloss.NewRenderer(w)
	baseStyle := re.NewStyle().Padding(0, 1)
	headerStyle := baseStyle.Foreground(lipgloss.Color("252")).Bold(true)
	numberStyle := baseStyle.Align(lipgloss.Right)

	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, c := range row {
			cells[i][j] = runewidth.Truncate(c, MaxCellWidth, "…")
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers(upper...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(cells) && col < len(cells[row]) && isNumeric(cells[row][col]) {
				return numberStyle
			}
			return baseStyle
		})
	if width > 0 {
		tbl = tbl.Width(width)
	}

	_, err := fmt.Fprintln(w, tbl)
	return err
}

// isNumeric 判断单元格是否为数值（允许千分位、百分号和单位后缀）
func isNumeric(s string) bool {
	f := strings.Fields(s)
	if len(f) == 0 {
		return false
	}
	v := strings.TrimSuffix(strings.ReplaceAll(f[0], ",", ""), "%")
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}
