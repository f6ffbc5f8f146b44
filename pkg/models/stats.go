package models

// TopN 排行榜的长度
const TopN = 10

// Totals 被包含内容的总计
// UnrecognizedFiles 为未识别语言、只区分了空行与代码的文本文件数
// ContentToDiskRatio 为逻辑大小占实际占用的百分比
type Totals struct {
	Files              int             `json:"files" yaml:"files"`
	Directories        int             `json:"directories" yaml:"directories"`
	Symlinks           int             `json:"symlinks" yaml:"symlinks"`
	BinaryFiles        int             `json:"binary_files" yaml:"binary_files"`
	UnrecognizedFiles  int             `json:"unrecognized_files" yaml:"unrecognized_files"`
	RedactedFiles      int             `json:"redacted_files" yaml:"redacted_files"`
	ErrorEntries       int             `json:"error_entries" yaml:"error_entries"`
	Lines              LineCounts      `json:"lines" yaml:"lines"`
	Size               SizeMeasurement `json:"size" yaml:"size"`
	AverageFileBytes   int64           `json:"average_file_bytes" yaml:"average_file_bytes"`
	ContentToDiskRatio float64         `json:"content_to_disk_ratio" yaml:"content_to_disk_ratio"`
}

// Percentages 代码/注释/空行占总行数的百分比，保留一位小数
type Percentages struct {
	Code    float64 `json:"code" yaml:"code"`
	Comment float64 `json:"comment" yaml:"comment"`
	Blank   float64 `json:"blank" yaml:"blank"`
}

// GroupStats 按扩展名或语言分组的小计
type GroupStats struct {
	Key   string          `json:"key" yaml:"key"`
	Files int             `json:"files" yaml:"files"`
	Lines LineCounts      `json:"lines" yaml:"lines"`
	Size  SizeMeasurement `json:"size" yaml:"size"`
}

// FileSize 排行榜中的一个文件
type FileSize struct {
	Path     string          `json:"path" yaml:"path"`
	Language string          `json:"language,omitempty" yaml:"language,omitempty"`
	Size     SizeMeasurement `json:"size" yaml:"size"`
}

// ExcludedTotals 被排除内容的总计，与被包含内容分开统计
type ExcludedTotals struct {
	Entries     int             `json:"entries" yaml:"entries"`
	Directories int             `json:"directories" yaml:"directories"`
	Files       int             `json:"files" yaml:"files"` // 包括被排除目录中的文件
	Size        SizeMeasurement `json:"size" yaml:"size"`
}

// Statistics 一次扫描的统计结果
type Statistics struct {
	Totals               Totals            `json:"totals" yaml:"totals"`
	Percentages          Percentages       `json:"percentages" yaml:"percentages"`
	ByExtension          []GroupStats      `json:"by_extension" yaml:"by_extension"`
	ByLanguage           []GroupStats      `json:"by_language" yaml:"by_language"`
	LargestFiles         []FileSize        `json:"largest_files" yaml:"largest_files"`
	LargestExcludedDirs  []ExclusionRecord `json:"largest_excluded_dirs" yaml:"largest_excluded_dirs"`
	LargestExcludedFiles []ExclusionRecord `json:"largest_excluded_files" yaml:"largest_excluded_files"`
	Excluded             ExcludedTotals    `json:"excluded" yaml:"excluded"`
}
