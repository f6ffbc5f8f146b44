package models

// SignatureKind 签名类别：项目类型或框架
type SignatureKind string

const (
	SignatureProject   SignatureKind = "project"
	SignatureFramework SignatureKind = "framework"
)

// Marker 签名的一个判定条件，File/Dir/Glob 三者取其一
// Depth 为 Glob 的搜索深度，0 表示只看根目录
// Contains 与 Dependency（清单中声明的依赖名）只对 File/Glob 命中的文件生效
type Marker struct {
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	Dir        string `json:"dir,omitempty" yaml:"dir,omitempty"`
	Glob       string `json:"glob,omitempty" yaml:"glob,omitempty"`
	Depth      int    `json:"depth,omitempty" yaml:"depth,omitempty"`
	Contains   string `json:"contains,omitempty" yaml:"contains,omitempty"`
	Dependency string `json:"dependency,omitempty" yaml:"dependency,omitempty"`
}

// Signature 规则表中的一行：一种项目类型或框架
type Signature struct {
	Name         string        `json:"name" yaml:"name"`
	Kind         SignatureKind `json:"kind" yaml:"kind"`
	Category     string        `json:"category,omitempty" yaml:"category,omitempty"`
	Match        string        `json:"match,omitempty" yaml:"match,omitempty"`               // any（默认）或 all
	VersionFrom  string        `json:"version_from,omitempty" yaml:"version_from,omitempty"` // 从该清单读取项目自身版本
	Markers      []Marker      `json:"markers" yaml:"markers"`
	ExcludeDirs  []string      `json:"exclude_dirs,omitempty" yaml:"exclude_dirs,omitempty"`
	ExcludeFiles []string      `json:"exclude_files,omitempty" yaml:"exclude_files,omitempty"`
}

// MatchedSignature 一个命中的项目类型/框架签名
type MatchedSignature struct {
	Name         string        `json:"name" yaml:"name"`
	Kind         SignatureKind `json:"kind" yaml:"kind"`
	Category     string        `json:"category,omitempty" yaml:"category,omitempty"` // frontend / backend / testing / other
	Version      string        `json:"version,omitempty" yaml:"version,omitempty"`
	Evidence     []string      `json:"evidence" yaml:"evidence"` // 触发命中的标记文件
	ExcludeDirs  []string      `json:"exclude_dirs,omitempty" yaml:"exclude_dirs,omitempty"`
	ExcludeFiles []string      `json:"exclude_files,omitempty" yaml:"exclude_files,omitempty"`
}

// RedactionReason 脱敏原因
type RedactionReason string

const (
	RedactEnvFile          RedactionReason = "env-file"
	RedactCredential       RedactionReason = "credential-pattern"
	RedactKey              RedactionReason = "key-pattern"
	RedactConnectionString RedactionReason = "connection-string"
	RedactDenylist         RedactionReason = "explicit-denylist"
)

// RedactionRecord 一个被脱敏的文件
// 其行数与大小统计仍然基于真实内容计算
type RedactionRecord struct {
	Path   string          `json:"path" yaml:"path"`
	Reason RedactionReason `json:"reason" yaml:"reason"`
	Detail string          `json:"detail,omitempty" yaml:"detail,omitempty"`
}
