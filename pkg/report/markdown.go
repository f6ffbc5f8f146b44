package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yeisme/codetree/pkg/models"
)

// MarkdownRenderer Markdown 报告，可直接在代码托管平台上阅读
type MarkdownRenderer struct{}

// Extension 实现 Renderer
func (*MarkdownRenderer) Extension() string { return "md" }

// Render 实现 Renderer
func (*MarkdownRenderer) Render(w io.Writer, r *models.Report) error {
	var b bytes.Buffer
	st := r.Statistics
	tot := st.Totals

	b.WriteString("# 🌳 Codetree Project Analysis\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", r.GeneratedAt.UTC().Format(TimeLayout))
	fmt.Fprintf(&b, "**Root:** `%s`\n\n", r.Root)

	b.WriteString("## 📋 Project Information\n\n")
	if len(r.Signatures) == 0 {
		b.WriteString("Project type: unknown\n\n")
	} else {
		rows := make([][]string, 0, len(r.Signatures))
		for _, s := range r.Signatures {
			rows = append(rows, []string{s.Name, string(s.Kind), s.Category, s.Version, strings.Join(s.Evidence, ", ")})
		}
		mdTable(&b, []string{"Name", "Kind", "Category", "Version", "Evidence"}, rows)
	}

	b.WriteString("## 📊 Project Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Files:** %s\n", humanize.Comma(int64(tot.Files)))
	fmt.Fprintf(&b, "- **Directories:** %s\n", humanize.Comma(int64(tot.Directories)))
	fmt.Fprintf(&b, "- **Total Lines:** %s\n", humanize.Comma(int64(tot.Lines.Total)))
	fmt.Fprintf(&b, "- **Code Lines:** %s (%s)\n", humanize.Comma(int64(tot.Lines.Code)), pct(st.Percentages.Code))
	fmt.Fprintf(&b, "- **Comment Lines:** %s (%s)\n", humanize.Comma(int64(tot.Lines.Comment)), pct(st.Percentages.Comment))
	fmt.Fprintf(&b, "- **Blank Lines:** %s (%s)\n", humanize.Comma(int64(tot.Lines.Blank)), pct(st.Percentages.Blank))
	fmt.Fprintf(&b, "- **Content Size:** %s\n", bytesOf(tot.Size.Logical))
	fmt.Fprintf(&b, "- **Size on Disk:** %s\n", bytesOf(tot.Size.Allocated))
	fmt.Fprintf(&b, "- **Average File Size:** %s\n", bytesOf(tot.AverageFileBytes))
	fmt.Fprintf(&b, "- **Content to Disk Ratio:** %s\n", pct(tot.ContentToDiskRatio))
	fmt.Fprintf(&b, "- **Binary Files:** %d\n", tot.BinaryFiles)
	fmt.Fprintf(&b, "- **Symlinks:** %d\n", tot.Symlinks)
	fmt.Fprintf(&b, "- **Sensitive Files:** %d\n\n", tot.RedactedFiles)

	if len(st.ByLanguage) > 0 {
		b.WriteString("### 🗣️ Files by Language\n\n")
		mdTable(&b, append([]string{"Language"}, groupHeaders...), groupRows(st.ByLanguage))
	}
	if len(st.ByExtension) > 0 {
		b.WriteString("### 📁 Files by Type\n\n")
		mdTable(&b, append([]string{"Extension"}, groupHeaders...), groupRows(st.ByExtension))
	}
	if len(st.LargestFiles) > 0 {
		fmt.Fprintf(&b, "### 📦 Largest Files (top %d)\n\n", models.TopN)
		mdTable(&b, largestHeaders, largestFileRows(st.LargestFiles))
	}

	b.WriteString("## 🚫 Excluded Content\n\n")
	ex := st.Excluded
	fmt.Fprintf(&b, "- **Excluded Entries:** %d\n", ex.Entries)
	fmt.Fprintf(&b, "- **Excluded Files:** %d\n", ex.Files)
	fmt.Fprintf(&b, "- **Excluded Size:** %s (%s on disk)\n\n", bytesOf(ex.Size.Logical), bytesOf(ex.Size.Allocated))
	if len(r.Exclusions.ByRule) > 0 {
		mdTable(&b, ruleHeaders, ruleRows(r.Exclusions.ByRule))
	}
	if len(st.LargestExcludedDirs) > 0 {
		fmt.Fprintf(&b, "### Largest Excluded Directories (top %d)\n\n", models.TopN)
		mdTable(&b, exclusionHeaders, exclusionRows(st.LargestExcludedDirs))
	}
	if len(st.LargestExcludedFiles) > 0 {
		fmt.Fprintf(&b, "### Largest Excluded Files (top %d)\n\n", models.TopN)
		mdTable(&b, exclusionHeaders, exclusionRows(st.LargestExcludedFiles))
	}

	if len(r.Redactions) > 0 {
		b.WriteString("## 🔒 Sensitive Files\n\n")
		mdTable(&b, redactionHeaders, redactionRows(r.Redactions))
	}
	if len(r.Errors) > 0 {
		b.WriteString("## ⚠️ Errors\n\n")
		mdTable(&b, errorHeaders, errorRows(r.Errors))
	}

	b.WriteString("## 🗂️ Project Structure\n\n")
	writeFence(&b, plainTree(r), "text")

	b.WriteString("## 📄 File Contents\n\n")
	for _, f := range includedFiles(r.Tree) {
		fmt.Fprintf(&b, "### 📝 %s\n\n", f.Path)
		body, ok := fileBody(f)
		if !ok {
			writeFence(&b, body, "")
			continue
		}
		writeFence(&b, body, codeLanguage(f.Path))
	}

	_, err := w.Write(b.Bytes())
	return err
}

// writeFence 写入一个代码块，围栏长度大于正文中最长的反引号串
func writeFence(b *bytes.Buffer, body, lang string) {
	fence := strings.Repeat("`", max(3, longestRun(body, '`')+1))
	b.WriteString(fence + lang + "\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence + "\n\n")
}

func longestRun(s string, c byte) int {
	longest, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			longest = max(longest, cur)
		} else {
			cur = 0
		}
	}
	return longest
}

func mdTable(b *bytes.Buffer, headers []string, rows [][]string) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = mdEscape(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

var mdCellReplacer = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func mdEscape(s string) string {
	return mdCellReplacer.Replace(s)
}
