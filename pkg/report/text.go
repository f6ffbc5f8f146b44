package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yeisme/codetree/pkg/models"
	"github.com/yeisme/codetree/pkg/style"
)

// TextRenderer 纯文本报告
// 报告先写入缓冲区再一次性输出，因此即使目标是终端也不包含颜色
type TextRenderer struct {
	// Width 表格宽度，0 表示按内容自然宽度
	Width int
}

// Extension 实现 Renderer
func (*TextRenderer) Extension() string { return "txt" }

// Render 实现 Renderer
func (t *TextRenderer) Render(w io.Writer, r *models.Report) error {
	var buf bytes.Buffer
	t.write(&buf, r)
	_, err := w.Write(buf.Bytes())
	return err
}

func (t *TextRenderer) write(b *bytes.Buffer, r *models.Report) {
	title := "CODETREE PROJECT ANALYSIS"
	fmt.Fprintf(b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	_ = style.PrintKeyValues(b, []style.KeyValue{
		{Key: "Generated", Value: r.GeneratedAt.UTC().Format(TimeLayout)},
		{Key: "Root", Value: r.Root},
	})
	b.WriteString("\n")

	t.section(b, "Project information")
	if len(r.Signatures) == 0 {
		_ = style.PrintKeyValues(b, []style.KeyValue{{Key: "Project type", Value: "unknown"}})
	} else {
		items := make([]style.KeyValue, 0, len(r.Signatures))
		for _, s := range r.Signatures {
			items = append(items, style.KeyValue{Key: s.Name, Value: signatureLabel(s)})
		}
		_ = style.PrintKeyValues(b, items)
	}

	t.section(b, "Project file tree")
	b.WriteString(plainTree(r))

	t.section(b, "Project statistics")
	st := r.Statistics
	tot := st.Totals
	_ = style.PrintKeyValues(b, []style.KeyValue{
		{Key: "Total files", Value: humanize.Comma(int64(tot.Files))},
		{Key: "Directories", Value: humanize.Comma(int64(tot.Directories))},
		{Key: "Total lines", Value: humanize.Comma(int64(tot.Lines.Total))},
		{Key: "  Code", Value: fmt.Sprintf("%s (%s)", humanize.Comma(int64(tot.Lines.Code)), pct(st.Percentages.Code))},
		{Key: "  Comment", Value: fmt.Sprintf("%s (%s)", humanize.Comma(int64(tot.Lines.Comment)), pct(st.Percentages.Comment))},
		{Key: "  Blank", Value: fmt.Sprintf("%s (%s)", humanize.Comma(int64(tot.Lines.Blank)), pct(st.Percentages.Blank))},
		{Key: "Content size", Value: bytesOf(tot.Size.Logical)},
		{Key: "Size on disk", Value: bytesOf(tot.Size.Allocated)},
		{Key: "Average file size", Value: bytesOf(tot.AverageFileBytes)},
		{Key: "Content to disk ratio", Value: pct(tot.ContentToDiskRatio)},
		{Key: "Binary files", Value: humanize.Comma(int64(tot.BinaryFiles))},
		{Key: "Unrecognized files", Value: humanize.Comma(int64(tot.UnrecognizedFiles))},
		{Key: "Symlinks", Value: humanize.Comma(int64(tot.Symlinks))},
		{Key: "Sensitive files", Value: humanize.Comma(int64(tot.RedactedFiles)), Tone: style.ToneDanger},
	})
	if len(st.ByLanguage) > 0 {
		b.WriteString("\nFiles by language:\n")
		_ = style.PrintTable(b, append([]string{"Language"}, groupHeaders...), groupRows(st.ByLanguage), t.Width)
	}
	if len(st.ByExtension) > 0 {
		b.WriteString("\nFiles by type:\n")
		_ = style.PrintTable(b, append([]string{"Extension"}, groupHeaders...), groupRows(st.ByExtension), t.Width)
	}
	if len(st.LargestFiles) > 0 {
		fmt.Fprintf(b, "\nLargest files (top %d):\n", models.TopN)
		_ = style.PrintTable(b, largestHeaders, largestFileRows(st.LargestFiles), t.Width)
	}

	t.section(b, "Excluded content")
	ex := st.Excluded
	_ = style.PrintKeyValues(b, []style.KeyValue{
		{Key: "Excluded entries", Value: humanize.Comma(int64(ex.Entries))},
		{Key: "Excluded files", Value: humanize.Comma(int64(ex.Files))},
		{Key: "Excluded size", Value: bytesOf(ex.Size.Logical)},
		{Key: "Excluded on disk", Value: bytesOf(ex.Size.Allocated)},
	})
	if len(r.Exclusions.ByRule) > 0 {
		b.WriteString("\nBy rule:\n")
		_ = style.PrintTable(b, ruleHeaders, ruleRows(r.Exclusions.ByRule), t.Width)
	}
	if len(st.LargestExcludedDirs) > 0 {
		fmt.Fprintf(b, "\nLargest excluded directories (top %d):\n", models.TopN)
		_ = style.PrintTable(b, exclusionHeaders, exclusionRows(st.LargestExcludedDirs), t.Width)
	}
	if len(st.LargestExcludedFiles) > 0 {
		fmt.Fprintf(b, "\nLargest excluded files (top %d):\n", models.TopN)
		_ = style.PrintTable(b, exclusionHeaders, exclusionRows(st.LargestExcludedFiles), t.Width)
	}

	if len(r.Redactions) > 0 {
		t.section(b, "Sensitive files")
		fmt.Fprintf(b, "Detected %d potentially sensitive file(s) that have been protected.\n", len(r.Redactions))
		_ = style.PrintTable(b, redactionHeaders, redactionRows(r.Redactions), t.Width)
	}
	if len(r.Errors) > 0 {
		t.section(b, "Errors")
		_ = style.PrintTable(b, errorHeaders, errorRows(r.Errors), t.Width)
	}

	t.section(b, "Project files")
	for i, f := range includedFiles(r.Tree) {
		fmt.Fprintf(b, "%d. %s\n", i+1, f.Path)
		body, ok := fileBody(f)
		if !ok {
			fmt.Fprintf(b, "   %s\n\n", body)
			continue
		}
		b.WriteString("\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}

func (*TextRenderer) section(b *bytes.Buffer, title string) {
	b.WriteString("\n")
	_ = style.PrintHeading(b, title)
	b.WriteString("\n")
}
