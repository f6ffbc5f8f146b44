// Package report 将分析结果渲染为 text、json、markdown、html 四种格式
//
// 所有渲染器都是同一个 models.Report 的投影，JSON 为规范格式
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/yeisme/codetree/pkg/models"
	"github.com/yeisme/codetree/pkg/style"
	"github.com/yeisme/codetree/pkg/utils/sensitive"
)

// Format 输出格式
type Format string

const (
	// FormatText 纯文本报告
	FormatText Format = "text"
	// FormatJSON JSON 报告
	FormatJSON Format = "json"
	// FormatMarkdown Markdown 报告
	FormatMarkdown Format = "markdown"
	// FormatHTML 单文件 HTML 报告
	FormatHTML Format = "html"
)

// 文件内容不可展示时的占位文本
const (
	PlaceholderSensitive  = sensitive.Placeholder
	PlaceholderBinary     = "[BINARY FILE - Content Skipped]"
	PlaceholderOmitted    = "[LARGE FILE - Content Omitted]"
	PlaceholderUnreadable = "[Unable to read file content]"
)

// TimeLayout 报告中生成时间的格式
const TimeLayout = "2006-01-02 15:04:05 UTC"

// Renderer 将报告写入 w
type Renderer interface {
	Render(w io.Writer, r *models.Report) error
	// Extension 输出文件的扩展名，不含点
	Extension() string
}

var aliases = map[string]Format{
	"text":     FormatText,
	"txt":      FormatText,
	"json":     FormatJSON,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"html":     FormatHTML,
	"htm":      FormatHTML,
}

// Formats 返回所有支持的格式名称
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatMarkdown), string(FormatHTML)}
}

// ParseFormat 解析格式名称，大小写不敏感，无法识别时给出最接近的候选
func ParseFormat(s string) (Format, error) {
	if f, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	msg := fmt.Sprintf("unsupported format %q, supported formats: %s", s, strings.Join(Formats(), ", "))
	if hint := suggest(s); hint != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", hint)
	}
	return "", errors.New(msg)
}

func suggest(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return ""
	}
	names := make([]string, 0, len(aliases))
	for k := range aliases {
		names = append(names, k)
	}
	sort.Strings(names)

	if ranks := fuzzy.RankFindFold(s, names); len(ranks) > 0 {
		sort.Sort(ranks)
		return string(aliases[ranks[0].Target])
	}
	best, bestDist := "", 3
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(s, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	if best == "" {
		return ""
	}
	return string(aliases[best])
}

// New 返回指定格式的渲染器
func New(f Format) (Renderer, error) {
	switch f {
	case FormatText:
		return &TextRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatMarkdown:
		return &MarkdownRenderer{}, nil
	case FormatHTML:
		return &HTMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// includedFiles 按树的先序返回所有被包含的文件
func includedFiles(tree *models.Entry) []*models.Entry {
	var out []*models.Entry
	if tree == nil {
		return out
	}
	tree.Walk(func(e *models.Entry) bool {
		if e.IsFile() {
			out = append(out, e)
		}
		return true
	})
	return out
}

// fileBody 返回文件正文，正文不可展示时返回占位文本和 false
func fileBody(e *models.Entry) (string, bool) {
	switch {
	case e.Redacted:
		return PlaceholderSensitive, false
	case e.Binary:
		return PlaceholderBinary, false
	case e.ContentOmitted:
		return PlaceholderOmitted, false
	case e.Content == nil:
		return PlaceholderUnreadable, false
	}
	return *e.Content, true
}

func bytesOf(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// entryDetail 树节点名称之后的附加信息
func entryDetail(e *models.Entry) string {
	switch e.Kind {
	case models.KindDir:
		if e.Error != nil {
			return fmt.Sprintf("(error: %s)", e.Error.Kind)
		}
		return fmt.Sprintf("(%s, %s, %s)", plural(e.FileCount, "file"), plural(e.Lines.Total, "line"), bytesOf(e.Size.Logical))
	case models.KindSymlink:
		return "-> " + e.SymlinkTarget
	}

	var parts []string
	switch {
	case e.Error != nil:
		parts = append(parts, "error: "+string(e.Error.Kind))
	case e.Binary:
		parts = append(parts, "binary")
	default:
		parts = append(parts, plural(e.Lines.Total, "line"))
	}
	parts = append(parts, bytesOf(e.Size.Logical))
	if e.Redacted {
		parts = append(parts, "sensitive")
	}
	if e.ContentOmitted {
		parts = append(parts, "content omitted")
	}
	lang := ""
	if e.LanguageRecognized {
		lang = "[" + e.Language + "] "
	}
	return lang + "(" + strings.Join(parts, ", ") + ")"
}

func entryTone(e *models.Entry) style.Tone {
	switch {
	case e.Error != nil || e.Redacted:
		return style.ToneDanger
	case e.Kind == models.KindDir:
		return style.ToneAccent
	case e.Kind == models.KindSymlink || e.Binary:
		return style.ToneWarning
	default:
		return style.ToneNormal
	}
}

func treeNode(e *models.Entry, root string) style.TreeNode {
	name := e.Name
	if e.Kind == models.KindDir {
		name += "/"
	}
	if e.Path == "." {
		name = root
	}
	n := style.TreeNode{Text: name, Detail: entryDetail(e), Tone: entryTone(e)}
	for _, c := range e.Children {
		n.Children = append(n.Children, treeNode(c, root))
	}
	return n
}

// plainTree 以纯文本形式渲染条目树
func plainTree(r *models.Report) string {
	if r.Tree == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = style.PrintTree(&buf, treeNode(r.Tree, rootName(r.Root)))
	return buf.String()
}

func rootName(root string) string {
	base := path.Base(strings.ReplaceAll(root, "\\", "/"))
	if base == "/" || base == "." || base == "" {
		return root
	}
	return base + "/"
}

// lexerFor 按文件名选择 chroma 词法分析器，找不到时返回 nil
func lexerFor(relPath string) chroma.Lexer {
	return lexers.Match(path.Base(relPath))
}

// codeLanguage 返回 Markdown 代码块使用的语言标识
func codeLanguage(relPath string) string {
	l := lexerFor(relPath)
	if l == nil {
		return ""
	}
	cfg := l.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(strings.ReplaceAll(cfg.Name, " ", ""))
}

func signatureLabel(s models.MatchedSignature) string {
	kind := string(s.Kind)
	if s.Category != "" {
		kind += " (" + s.Category + ")"
	}
	if s.Version != "" {
		kind += " " + s.Version
	}
	return kind
}

func groupRows(groups []models.GroupStats) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Key,
			humanize.Comma(int64(g.Files)),
			humanize.Comma(int64(g.Lines.Code)),
			humanize.Comma(int64(g.Lines.Comment)),
			humanize.Comma(int64(g.Lines.Blank)),
			humanize.Comma(int64(g.Lines.Total)),
			bytesOf(g.Size.Logical),
		})
	}
	return rows
}

var groupHeaders = []string{"Files", "Code", "Comment", "Blank", "Total", "Size"}

func largestFileRows(files []models.FileSize) [][]string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Path, f.Language, bytesOf(f.Size.Logical), bytesOf(f.Size.Allocated)})
	}
	return rows
}

func exclusionRows(recs []models.ExclusionRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.Path, string(r.Rule), r.Reason,
			humanize.Comma(int64(r.FileCount)), bytesOf(r.Size.Logical), bytesOf(r.Size.Allocated),
		})
	}
	return rows
}

func ruleRows(rules []models.RuleSummary) [][]string {
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{
			string(r.Rule), humanize.Comma(int64(r.Entries)), humanize.Comma(int64(r.Files)),
			bytesOf(r.Size.Logical), bytesOf(r.Size.Allocated),
		})
	}
	return rows
}

func redactionRows(recs []models.RedactionRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{r.Path, string(r.Reason), r.Detail})
	}
	return rows
}

func errorRows(errs []models.EntryError) [][]string {
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{e.Path, string(e.Kind), e.Message})
	}
	return rows
}

var (
	exclusionHeaders = []string{"Path", "Rule", "Reason", "Files", "Size", "On disk"}
	ruleHeaders      = []string{"Rule", "Entries", "Files", "Size", "On disk"}
	redactionHeaders = []string{"Path", "Reason", "Detail"}
	errorHeaders     = []string{"Path", "Kind", "Message"}
	largestHeaders   = []string{"Path", "Language", "Size", "On disk"}
)
