package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

// TreeNode 定义了用于构建树的数据结构
// Detail 以次要色调追加在 Text 之后
type TreeNode struct {
	Text     string
	Detail   string
	Tone     Tone
	Children []TreeNode
}

// PrintTree 将 TreeNode 渲染为带连接符的树形结构写入 w
func PrintTree(w io.Writer, rootNode TreeNode) error {
	re := lipgloss.NewRenderer(w)
	enumeratorStyle := re.NewStyle().Foreground(ColorBorder).PaddingRight(1)
	muted := ToneMuted.style(re)

	label := func(n TreeNode) string {
		s := n.Tone.style(re).Render(n.Text)
		if n.Detail != "" {
			s += " " + muted.Render(n.Detail)
		}
		return s
	}

	// 递归地把 TreeNode 转换为 lipgloss/tree 对象
	var build func(TreeNode) *tree.Tree
	build = func(node TreeNode) *tree.Tree {
		t := tree.New().Root(label(node))
		for _, child := range node.Children {
			if len(child.Children) == 0 {
				t.Child(label(child))
				continue
			}
			t.Child(build(child))
		}
		return t
	}

	t := build(rootNode).
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(enumeratorStyle)

	_, err := fmt.Fprintln(w, t)
	return err
}
