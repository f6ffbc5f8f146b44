package style

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// HighlightTheme 终端高亮使用的 chroma 主题
const HighlightTheme = "dracula"

// PrintHighlighted 输出一段源码文本，目标为终端时按 lang 语法高亮
// lang 为 chroma 词法分析器名称，例如 json、yaml、toml
func PrintHighlighted(w io.Writer, src, lang string) error {
	if len(src) == 0 || src[len(src)-1] != '\n' {
		src += "\n"
	}
	if !IsTerminal(w) {
		_, err := io.WriteString(w, src)
		return err
	}
	return quick.Highlight(w, src, lang, "terminal256", HighlightTheme)
}

// PrintJSON 将任意值编码为缩进的 JSON 后输出，终端上带高亮
func PrintJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return PrintHighlighted(w, string(b), "json")
}
