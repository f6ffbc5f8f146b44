// Package stats 将扫描得到的条目树聚合为统计结果
package stats

import (
	"math"
	"sort"

	"github.com/yeisme/codetree/pkg/models"
)

const noExtension = "(none)"

// Aggregate 聚合条目树、脱敏记录与排除记录
// 结果只取决于输入内容，对同一棵树重复调用得到相同的结果
func Aggregate(tree *models.Entry, redactions []models.RedactionRecord, exclusions []models.ExclusionRecord) models.Statistics {
	var st models.Statistics
	byExt := map[string]*models.GroupStats{}
	byLang := map[string]*models.GroupStats{}
	var files []models.FileSize

	tree.Walk(func(e *models.Entry) bool {
		if e.Error != nil {
			st.Totals.ErrorEntries++
		}
		switch e.Kind {
		case models.KindDir:
			if e != tree {
				st.Totals.Directories++
			}
			return true
		case models.KindSymlink:
			st.Totals.Symlinks++
			return false
		}

		t := &st.Totals
		t.Files++
		t.Lines.Add(e.Lines)
		t.Size.Add(e.Size)
		if e.Binary {
			t.BinaryFiles++
		} else if !e.LanguageRecognized {
			t.UnrecognizedFiles++
		}

		ext := e.Extension
		if ext == "" {
			ext = noExtension
		}
		addGroup(byExt, ext, e)
		addGroup(byLang, e.Language, e)
		files = append(files, models.FileSize{Path: e.Path, Language: e.Language, Size: e.Size})
		return false
	})

	t := &st.Totals
	t.RedactedFiles = len(redactions)
	if t.Files > 0 {
		t.AverageFileBytes = t.Size.Logical / int64(t.Files)
	}
	t.ContentToDiskRatio = percent(float64(t.Size.Logical), float64(t.Size.Allocated))

	total := float64(t.Lines.Total)
	st.Percentages = models.Percentages{
		Code:    percent(float64(t.Lines.Code), total),
		Comment: percent(float64(t.Lines.Comment), total),
		Blank:   percent(float64(t.Lines.Blank), total),
	}

	st.ByExtension = sortedGroups(byExt)
	st.ByLanguage = sortedGroups(byLang)

	sort.Slice(files, func(i, j int) bool {
		if files[i].Size.Logical != files[j].Size.Logical {
			return files[i].Size.Logical > files[j].Size.Logical
		}
		return files[i].Path < files[j].Path
	})
	st.LargestFiles = head(files, models.TopN)

	var dirs, singles []models.ExclusionRecord
	for _, r := range exclusions {
		st.Excluded.Entries++
		st.Excluded.Files += r.FileCount
		st.Excluded.Size.Add(r.Size)
		if r.Kind == models.KindDir {
			st.Excluded.Directories++
			dirs = append(dirs, r)
		} else {
			singles = append(singles, r)
		}
	}
	sortByAllocated(dirs)
	sortByAllocated(singles)
	st.LargestExcludedDirs = head(dirs, models.TopN)
	st.LargestExcludedFiles = head(singles, models.TopN)
	return st
}

// SummarizeExclusions 按规则汇总排除记录，规则按优先级顺序排列
func SummarizeExclusions(records []models.ExclusionRecord) models.ExclusionSummary {
	order := []models.ExclusionRule{
		models.RuleOutputArtifact, models.RuleDefault, models.RuleProject, models.RuleUser, models.RuleGitignore,
	}
	byRule := map[models.ExclusionRule]*models.RuleSummary{}
	for _, r := range records {
		rs, ok := byRule[r.Rule]
		if !ok {
			rs = &models.RuleSummary{Rule: r.Rule}
			byRule[r.Rule] = rs
		}
		rs.Entries++
		rs.Files += r.FileCount
		rs.Size.Add(r.Size)
	}
	sum := models.ExclusionSummary{Records: records}
	for _, rule := range order {
		if rs, ok := byRule[rule]; ok {
			sum.ByRule = append(sum.ByRule, *rs)
		}
	}
	if sum.Records == nil {
		sum.Records = []models.ExclusionRecord{}
	}
	return sum
}

func addGroup(m map[string]*models.GroupStats, key string, e *models.Entry) {
	g, ok := m[key]
	if !ok {
		g = &models.GroupStats{Key: key}
		m[key] = g
	}
	g.Files++
	g.Lines.Add(e.Lines)
	g.Size.Add(e.Size)
}

// sortedGroups 按总行数、文件数降序，再按名称排序
func sortedGroups(m map[string]*models.GroupStats) []models.GroupStats {
	out := make([]models.GroupStats, 0, len(m))
	for _, g := range m {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Lines.Total != b.Lines.Total {
			return a.Lines.Total > b.Lines.Total
		}
		if a.Files != b.Files {
			return a.Files > b.Files
		}
		return a.Key < b.Key
	})
	return out
}

func sortByAllocated(rs []models.ExclusionRecord) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Size.Allocated != rs[j].Size.Allocated {
			return rs[i].Size.Allocated > rs[j].Size.Allocated
		}
		return rs[i].Path < rs[j].Path
	})
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[:n]
	}
	if s == nil {
		return []T{}
	}
	return s
}

// percent 保留一位小数，分母为零时返回 0
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(part/whole*1000) / 10
}
