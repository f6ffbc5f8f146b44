package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/dustin/go-humanize"

	"github.com/yeisme/codetree/pkg/models"
)

// DefaultHTMLTheme HTML 报告默认的 chroma 高亮主题
const DefaultHTMLTheme = "github"

//go:embed templates/report.html.tmpl
var htmlTemplate string

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"bytes": bytesOf,
	"pct":   pct,
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
}).Parse(htmlTemplate))

// HTMLRenderer 单文件 HTML 报告，文件内容按语言高亮
type HTMLRenderer struct {
	// Theme chroma 主题名，为空时使用 DefaultHTMLTheme
	Theme string
}

type htmlFile struct {
	Path        string
	Language    string
	Lines       int
	Size        string
	Code        template.HTML
	Placeholder string
	Sensitive   bool
}

type htmlView struct {
	Title     string
	Generated string
	Report    *models.Report
	Stats     models.Statistics
	Tree      string
	CSS       template.CSS
	Files     []htmlFile
}

// Extension 实现 Renderer
func (*HTMLRenderer) Extension() string { return "html" }

// Render 实现 Renderer
func (h *HTMLRenderer) Render(w io.Writer, r *models.Report) error {
	theme := h.Theme
	if theme == "" {
		theme = DefaultHTMLTheme
	}
	st := styles.Get(theme)
	formatter := chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(4))

	var css bytes.Buffer
	if err := formatter.WriteCSS(&css, st); err != nil {
		return fmt.Errorf("write highlight css: %w", err)
	}

	view := htmlView{
		Title:     "Codetree Project Analysis",
		Generated: r.GeneratedAt.UTC().Format(TimeLayout),
		Report:    r,
		Stats:     r.Statistics,
		Tree:      plainTree(r),
		CSS:       template.CSS(css.String()),
	}
	for _, f := range includedFiles(r.Tree) {
		hf := htmlFile{
			Path:      f.Path,
			Language:  f.Language,
			Lines:     f.Lines.Total,
			Size:      bytesOf(f.Size.Logical),
			Sensitive: f.Redacted,
		}
		body, ok := fileBody(f)
		if !ok {
			hf.Placeholder = body
		} else {
			code, err := highlight(formatter, st, f.Path, body)
			if err != nil {
				return fmt.Errorf("highlight %s: %w", f.Path, err)
			}
			hf.Code = code
		}
		view.Files = append(view.Files, hf)
	}

	var out bytes.Buffer
	if err := reportTemplate.Execute(&out, view); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := w.Write(out.Bytes())
	return err
}

// highlight 将源码转换为带 class 的 HTML，chroma 会转义所有文本
func highlight(f *chromahtml.Formatter, st *chroma.Style, relPath, src string) (template.HTML, error) {
	lexer := lexerFor(relPath)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, st, it); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
