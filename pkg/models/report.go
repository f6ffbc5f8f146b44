package models

import "time"

// RuleSummary 按排除规则分组的小计
type RuleSummary struct {
	Rule    ExclusionRule   `json:"rule" yaml:"rule"`
	Entries int             `json:"entries" yaml:"entries"`
	Files   int             `json:"files" yaml:"files"`
	Size    SizeMeasurement `json:"size" yaml:"size"`
}

// ExclusionSummary 全部排除记录及其按规则的汇总
type ExclusionSummary struct {
	ByRule  []RuleSummary     `json:"by_rule" yaml:"by_rule"`
	Records []ExclusionRecord `json:"records" yaml:"records"`
}

// Report 与输出格式无关的完整分析结果
// 每次运行构建一次，统计完成后不再修改，渲染一次后丢弃
type Report struct {
	Root        string             `json:"root" yaml:"root"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Signatures  []MatchedSignature `json:"signatures" yaml:"signatures"`
	Tree        *Entry             `json:"tree" yaml:"tree"`
	Statistics  Statistics         `json:"statistics" yaml:"statistics"`
	Exclusions  ExclusionSummary   `json:"exclusions" yaml:"exclusions"`
	Redactions  []RedactionRecord  `json:"redactions" yaml:"redactions"`
	Errors      []EntryError       `json:"errors" yaml:"errors"`
}

// Frameworks 只返回框架类签名
func (r *Report) Frameworks() []MatchedSignature {
	return r.filterSignatures(SignatureFramework)
}

// ProjectTypes 只返回项目类型签名
func (r *Report) ProjectTypes() []MatchedSignature {
	return r.filterSignatures(SignatureProject)
}

func (r *Report) filterSignatures(kind SignatureKind) []MatchedSignature {
	var out []MatchedSignature
	for _, s := range r.Signatures {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
