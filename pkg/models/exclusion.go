package models

// ExclusionRule 排除决策所命中的规则
type ExclusionRule string

const (
	// RuleIncluded 未被排除
	RuleIncluded ExclusionRule = "included"
	// RuleOutputArtifact 本次运行要写出的报告文件
	RuleOutputArtifact ExclusionRule = "output-artifact"
	// RuleDefault 内置的通用噪音目录/文件（版本控制元数据等）
	RuleDefault ExclusionRule = "default-rule"
	// RuleProject 命中的项目签名声明的构建/依赖目录
	RuleProject ExclusionRule = "project-rule"
	// RuleUser 用户通过配置或命令行显式排除
	RuleUser ExclusionRule = "user-rule"
	// RuleGitignore 被根目录 .gitignore 忽略（需显式开启）
	RuleGitignore ExclusionRule = "gitignore"
)

// ExclusionDecision 对单个路径的排除判定
type ExclusionDecision struct {
	Rule      ExclusionRule `json:"rule" yaml:"rule"`
	Reason    string        `json:"reason,omitempty" yaml:"reason,omitempty"`
	Signature string        `json:"signature,omitempty" yaml:"signature,omitempty"` // project-rule 时给出归属的签名
}

// Excluded 是否被排除
func (d ExclusionDecision) Excluded() bool {
	return d.Rule != "" && d.Rule != RuleIncluded
}

// ExclusionRecord 一次排除的记录，排除从不静默发生
type ExclusionRecord struct {
	Path      string          `json:"path" yaml:"path"`
	Kind      EntryKind       `json:"kind" yaml:"kind"`
	Rule      ExclusionRule   `json:"rule" yaml:"rule"`
	Reason    string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Signature string          `json:"signature,omitempty" yaml:"signature,omitempty"`
	Size      SizeMeasurement `json:"size" yaml:"size"`
	FileCount int             `json:"file_count" yaml:"file_count"`
}
