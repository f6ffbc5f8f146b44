package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/codetree/pkg/models"
)

func file(path, ext, lang string, logical int64, lines models.LineCounts) *models.Entry {
	return &models.Entry{
		Path:               path,
		Kind:               models.KindFile,
		Extension:          ext,
		Language:           lang,
		LanguageRecognized: lang != "Unknown",
		Size:               models.SizeMeasurement{Logical: logical, Allocated: 4096},
		Lines:              lines,
	}
}

func dir(path string, children ...*models.Entry) *models.Entry {
	d := &models.Entry{Path: path, Kind: models.KindDir, Children: children}
	for _, c := range children {
		d.Size.Add(c.Size)
		d.Lines.Add(c.Lines)
	}
	return d
}

func scenarioTree() (*models.Entry, []models.RedactionRecord, []models.ExclusionRecord) {
	mainRs := file("src/main.rs", ".rs", "Rust", 200, models.LineCounts{Code: 10, Comment: 2, Blank: 1, Total: 13})
	env := file(".env", "", "Dotenv", 31, models.LineCounts{Code: 3, Total: 3})
	env.Redacted = true
	tree := dir(".", env, dir("src", mainRs))
	red := []models.RedactionRecord{{Path: ".env", Reason: models.RedactEnvFile}}
	ex := []models.ExclusionRecord{{
		Path: "target", Kind: models.KindDir, Rule: models.RuleProject, Signature: "Rust",
		Size: models.SizeMeasurement{Logical: 2000, Allocated: 20480}, FileCount: 5,
	}}
	return tree, red, ex
}

func TestAggregate_Scenario(t *testing.T) {
	st := Aggregate(scenarioTree())

	assert.Equal(t, 2, st.Totals.Files)
	assert.Equal(t, 1, st.Totals.Directories)
	assert.Equal(t, 1, st.Totals.RedactedFiles)
	assert.Equal(t, int64(231), st.Totals.Size.Logical)
	assert.Equal(t, int64(8192), st.Totals.Size.Allocated)
	assert.Equal(t, int64(115), st.Totals.AverageFileBytes)
	assert.Equal(t, 2.8, st.Totals.ContentToDiskRatio)

	var rust *models.GroupStats
	for i := range st.ByLanguage {
		if st.ByLanguage[i].Key == "Rust" {
			rust = &st.ByLanguage[i]
		}
	}
	require.NotNil(t, rust)
	assert.Equal(t, models.LineCounts{Code: 10, Comment: 2, Blank: 1, Total: 13}, rust.Lines)

	assert.Equal(t, models.LineCounts{Code: 13, Comment: 2, Blank: 1, Total: 16}, st.Totals.Lines)
	assert.Equal(t, 81.3, st.Percentages.Code)
	assert.Equal(t, 12.5, st.Percentages.Comment)
	assert.Equal(t, 6.3, st.Percentages.Blank)

	require.Len(t, st.LargestExcludedDirs, 1)
	assert.Equal(t, "target", st.LargestExcludedDirs[0].Path)
	assert.Equal(t, models.RuleProject, st.LargestExcludedDirs[0].Rule)
	assert.Empty(t, st.LargestExcludedFiles)
	assert.Equal(t, models.ExcludedTotals{
		Entries: 1, Directories: 1, Files: 5,
		Size: models.SizeMeasurement{Logical: 2000, Allocated: 20480},
	}, st.Excluded)

	// 被排除内容不进入主统计
	assert.Equal(t, "src/main.rs", st.LargestFiles[0].Path)
	assert.Equal(t, []string{".rs", "(none)"}, []string{st.ByExtension[0].Key, st.ByExtension[1].Key})
}

func TestAggregate_EmptyTree(t *testing.T) {
	st := Aggregate(dir("."), nil, nil)
	assert.Zero(t, st.Totals.Files)
	assert.Equal(t, models.Percentages{}, st.Percentages)
	assert.Zero(t, st.Totals.AverageFileBytes)
	assert.Zero(t, st.Totals.ContentToDiskRatio)
	assert.NotNil(t, st.ByExtension)
	assert.NotNil(t, st.LargestFiles)
}

func TestAggregate_EmptyFile(t *testing.T) {
	st := Aggregate(dir(".", file("a.go", ".go", "Go", 0, models.LineCounts{})), nil, nil)
	assert.Equal(t, 1, st.Totals.Files)
	assert.Zero(t, st.Totals.Lines.Total)
	assert.Equal(t, models.Percentages{}, st.Percentages)
}

func TestAggregate_BinaryAndUnknown(t *testing.T) {
	bin := file("logo.png", ".png", "Unknown", 1000, models.LineCounts{})
	bin.Binary = true
	unk := file("data.xyz", ".xyz", "Unknown", 10, models.LineCounts{Code: 2, Total: 2})
	link := &models.Entry{Path: "link", Kind: models.KindSymlink}
	st := Aggregate(dir(".", bin, unk, link), nil, nil)

	assert.Equal(t, 2, st.Totals.Files)
	assert.Equal(t, 1, st.Totals.BinaryFiles)
	assert.Equal(t, 1, st.Totals.UnrecognizedFiles)
	assert.Equal(t, 1, st.Totals.Symlinks)
	assert.Equal(t, int64(1010), st.Totals.Size.Logical)
	assert.Equal(t, 2, st.Totals.Lines.Total)
}

func TestAggregate_TopNAndTies(t *testing.T) {
	var children []*models.Entry
	for i := range 12 {
		children = append(children, file(fmt.Sprintf("f%02d.go", i), ".go", "Go", 100, models.LineCounts{}))
	}
	children = append(children, file("zzz.go", ".go", "Go", 500, models.LineCounts{}))
	st := Aggregate(dir(".", children...), nil, nil)

	require.Len(t, st.LargestFiles, models.TopN)
	assert.Equal(t, "zzz.go", st.LargestFiles[0].Path)
	assert.Equal(t, "f00.go", st.LargestFiles[1].Path)
	assert.Equal(t, "f08.go", st.LargestFiles[9].Path)
}

func TestAggregate_Idempotent(t *testing.T) {
	tree, red, ex := scenarioTree()
	assert.Equal(t, Aggregate(tree, red, ex), Aggregate(tree, red, ex))
}

func TestSummarizeExclusions(t *testing.T) {
	recs := []models.ExclusionRecord{
		{Path: "node_modules", Kind: models.KindDir, Rule: models.RuleProject, FileCount: 10, Size: models.SizeMeasurement{Logical: 100}},
		{Path: ".git", Kind: models.KindDir, Rule: models.RuleDefault, FileCount: 3, Size: models.SizeMeasurement{Logical: 30}},
		{Path: "dist", Kind: models.KindDir, Rule: models.RuleProject, FileCount: 2, Size: models.SizeMeasurement{Logical: 20}},
	}
	sum := SummarizeExclusions(recs)
	require.Len(t, sum.ByRule, 2)
	assert.Equal(t, models.RuleDefault, sum.ByRule[0].Rule)
	assert.Equal(t, models.RuleSummary{Rule: models.RuleProject, Entries: 2, Files: 12, Size: models.SizeMeasurement{Logical: 120}}, sum.ByRule[1])
	assert.Len(t, sum.Records, 3)

	assert.NotNil(t, SummarizeExclusions(nil).Records)
}
