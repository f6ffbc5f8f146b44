// Package models 定义扫描引擎与渲染器之间共享的数据结构
package models

// EntryKind 文件系统节点类型
type EntryKind string

const (
	// KindFile 普通文件
	KindFile EntryKind = "file"
	// KindDir 目录
	KindDir EntryKind = "dir"
	// KindSymlink 符号链接，只记录不展开
	KindSymlink EntryKind = "symlink"
)

// LineCounts 存储代码、注释和空行的计数
// 不变量: Code + Comment + Blank == Total
type LineCounts struct {
	Code    int `json:"code" yaml:"code"`
	Comment int `json:"comment" yaml:"comment"`
	Blank   int `json:"blank" yaml:"blank"`
	Total   int `json:"total" yaml:"total"`
}

// Add 累加另一组行数统计
func (l *LineCounts) Add(o LineCounts) {
	l.Code += o.Code
	l.Comment += o.Comment
	l.Blank += o.Blank
	l.Total += o.Total
}

// SizeMeasurement 同时记录逻辑大小与磁盘实际占用
type SizeMeasurement struct {
	Logical   int64 `json:"logical_bytes" yaml:"logical_bytes"`     // 文件内容字节数
	Allocated int64 `json:"allocated_bytes" yaml:"allocated_bytes"` // 平台元数据给出的实际块占用
	// Fallback 为 true 表示平台无法提供独立的占用大小，Allocated 退化为 Logical
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Add 累加另一个测量值
func (s *SizeMeasurement) Add(o SizeMeasurement) {
	s.Logical += o.Logical
	s.Allocated += o.Allocated
	s.Fallback = s.Fallback || o.Fallback
}

// Entry 扫描树中的一个节点（文件、目录或符号链接）
type Entry struct {
	Path    string    `json:"path" yaml:"path"` // 相对根目录、以 / 分隔的路径，根节点为 "."
	AbsPath string    `json:"-" yaml:"-"`
	Name    string    `json:"name" yaml:"name"`
	Kind    EntryKind `json:"kind" yaml:"kind"`
	Depth   int       `json:"depth" yaml:"depth"`

	// 目录专属: 子节点按名称字典序排列；Size/Lines/FileCount 为所有被包含后代的汇总
	Children  []*Entry `json:"children,omitempty" yaml:"children,omitempty"`
	FileCount int      `json:"file_count,omitempty" yaml:"file_count,omitempty"`

	// 文件专属
	Extension          string          `json:"extension,omitempty" yaml:"extension,omitempty"`
	Language           string          `json:"language,omitempty" yaml:"language,omitempty"`
	LanguageRecognized bool            `json:"language_recognized,omitempty" yaml:"language_recognized,omitempty"`
	Size               SizeMeasurement `json:"size" yaml:"size"`
	Lines              LineCounts      `json:"lines" yaml:"lines"`
	Binary             bool            `json:"binary,omitempty" yaml:"binary,omitempty"`
	Redacted           bool            `json:"redacted,omitempty" yaml:"redacted,omitempty"`
	ContentOmitted     bool            `json:"content_omitted,omitempty" yaml:"content_omitted,omitempty"` // 超过内容上限，只统计不附带正文
	Content            *string         `json:"content,omitempty" yaml:"content,omitempty"`

	SymlinkTarget string      `json:"symlink_target,omitempty" yaml:"symlink_target,omitempty"`
	Error         *EntryError `json:"error,omitempty" yaml:"error,omitempty"`
}

// IsDir 是否为目录
func (e *Entry) IsDir() bool { return e.Kind == KindDir }

// IsFile 是否为普通文件
func (e *Entry) IsFile() bool { return e.Kind == KindFile }

// Walk 以先序深度优先遍历整棵树，fn 返回 false 时不再进入该节点的子树
func (e *Entry) Walk(fn func(*Entry) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}
