package report

import (
	"encoding/json"
	"io"

	"github.com/yeisme/codetree/pkg/models"
)

// JSONRenderer 规范的 JSON 报告，结构由 codetree schema 描述
type JSONRenderer struct{}

// Extension 实现 Renderer
func (*JSONRenderer) Extension() string { return "json" }

// Render 实现 Renderer
func (*JSONRenderer) Render(w io.Writer, r *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
