// Package count 提供按行分类（代码/注释/空行）的工具函数
package count

import (
	"path/filepath"
	"strings"
)

// BlockPair 块注释的起止标记
type BlockPair struct {
	Start string
	End   string
}

// CommentStyle 一种语言的注释语法
type CommentStyle struct {
	Single []string    // 行注释前缀
	Blocks []BlockPair // 块注释起止对
}

// IsNone 没有任何注释语法
func (c CommentStyle) IsNone() bool {
	return len(c.Single) == 0 && len(c.Blocks) == 0
}

var (
	cBlock   = []BlockPair{{Start: "/*", End: "*/"}}
	xmlBlock = []BlockPair{{Start: "<!--", End: "-->"}}
	slashes  = []string{"//"}
	hash     = []string{"#"}
)

var (
	// ExtToLang 创建扩展名到语言的映射表
	ExtToLang = map[string]string{
		".go":  "Go",
		".js":  "JavaScript",
		".mjs": "JavaScript",
		".cjs": "JavaScript",
		".ts":  "TypeScript",
		".mts": "TypeScript",
		".jsx": "JSX",
		".tsx": "TSX",
		// Python
		".py":  "Python",
		".pyi": "Python",

		".java": "Java",

		// C/C++ 系列
		".c":   "C",
		".cxx": "C++",
		".cc":  "C++",
		".cpp": "C++",
		".h":   "C Header",
		".hpp": "C++ Header",

		".rs":     "Rust",
		".rb":     "Ruby",
		".php":    "PHP",
		".cs":     "C#",
		".fs":     "F#",
		".vb":     "Visual Basic",
		".swift":  "Swift",
		".kt":     "Kotlin",
		".kts":    "Kotlin",
		".scala":  "Scala",
		".gradle": "Groovy",
		".groovy": "Groovy",
		".dart":   "Dart",
		".lua":    "Lua",
		".pl":     "Perl",
		".r":      "R",
		".ex":     "Elixir",
		".exs":    "Elixir",
		".erl":    "Erlang",
		".hs":     "Haskell",
		".clj":    "Clojure",
		".zig":    "Zig",
		".proto":  "Protocol Buffers",
		// Shell
		".sh":     "Shell",
		".bash":   "Shell",
		".zsh":    "Shell",
		".fish":   "Shell",
		".ps1":    "PowerShell",
		".bat":    "Batch",
		".cmd":    "Batch",
		".sql":    "SQL",
		".html":   "HTML",
		".htm":    "HTML",
		".xml":    "XML",
		".svg":    "XML",
		".css":    "CSS",
		".scss":   "SCSS",
		".sass":   "SASS",
		".less":   "LESS",
		".vue":    "Vue",
		".svelte": "Svelte",
		".yml":    "YAML",
		".yaml":   "YAML",
		".json":   "JSON",
		".toml":   "TOML",
		".ini":    "INI",
		".cfg":    "INI",
		".conf":   "INI",
		".env":    "Dotenv",
		".tf":     "HCL",
		".md":     "Markdown",
		".txt":    "Text",
	}

	// FileNameToLang 无扩展名或扩展名不可靠的特殊文件名，优先于扩展名匹配
	FileNameToLang = map[string]string{
		"Dockerfile":     "Dockerfile",
		"Makefile":       "Makefile",
		"makefile":       "Makefile",
		"GNUmakefile":    "Makefile",
		"CMakeLists.txt": "CMake",
		"Gemfile":        "Ruby",
		"Rakefile":       "Ruby",
		"Jenkinsfile":    "Groovy",
		".gitignore":     "Ignore List",
		".dockerignore":  "Ignore List",
		".env":           "Dotenv",
		".envrc":         "Shell",
		".bashrc":        "Shell",
		".zshrc":         "Shell",
		"go.mod":         "Go Module",
		"go.sum":         "Text",
	}

	// LangToComment 语言到注释风格的映射
	LangToComment = map[string]CommentStyle{
		"Go":               {Single: slashes, Blocks: cBlock},
		"Go Module":        {Single: slashes},
		"Java":             {Single: slashes, Blocks: cBlock},
		"JavaScript":       {Single: slashes, Blocks: cBlock},
		"TypeScript":       {Single: slashes, Blocks: cBlock},
		"JSX":              {Single: slashes, Blocks: cBlock},
		"TSX":              {Single: slashes, Blocks: cBlock},
		"C":                {Single: slashes, Blocks: cBlock},
		"C++":              {Single: slashes, Blocks: cBlock},
		"C Header":         {Single: slashes, Blocks: cBlock},
		"C++ Header":       {Single: slashes, Blocks: cBlock},
		"C#":               {Single: slashes, Blocks: cBlock},
		"F#":               {Single: slashes, Blocks: []BlockPair{{Start: "(*", End: "*)"}}},
		"Visual Basic":     {Single: []string{"'"}},
		"Kotlin":           {Single: slashes, Blocks: cBlock},
		"Scala":            {Single: slashes, Blocks: cBlock},
		"Groovy":           {Single: slashes, Blocks: cBlock},
		"Dart":             {Single: slashes, Blocks: cBlock},
		"Zig":              {Single: slashes},
		"Protocol Buffers": {Single: slashes, Blocks: cBlock},
		"PHP":              {Single: []string{"//", "#"}, Blocks: cBlock},
		"Python": {Single: hash, Blocks: []BlockPair{
			{Start: `"""`, End: `"""`},
			{Start: "'''", End: "'''"},
		}},
		"Ruby":        {Single: hash, Blocks: []BlockPair{{Start: "=begin", End: "=end"}}},
		"Perl":        {Single: hash, Blocks: []BlockPair{{Start: "=pod", End: "=cut"}}},
		"R":           {Single: hash},
		"Elixir":      {Single: hash},
		"Erlang":      {Single: []string{"%"}},
		"Haskell":     {Single: []string{"--"}, Blocks: []BlockPair{{Start: "{-", End: "-}"}}},
		"Clojure":     {Single: []string{";"}},
		"Lua":         {Single: []string{"--"}, Blocks: []BlockPair{{Start: "--[[", End: "]]"}}},
		"Rust":        {Single: slashes, Blocks: cBlock},
		"Swift":       {Single: slashes, Blocks: cBlock},
		"Shell":       {Single: hash},
		"Batch":       {Single: []string{"REM ", "rem ", "::"}},
		"Dockerfile":  {Single: hash},
		"Makefile":    {Single: hash},
		"CMake":       {Single: hash},
		"HCL":         {Single: []string{"#", "//"}, Blocks: cBlock},
		"Dotenv":      {Single: hash},
		"Ignore List": {Single: hash},
		"HTML":        {Blocks: xmlBlock},
		"SQL":         {Single: []string{"--"}, Blocks: cBlock},
		"Markdown":    {Blocks: xmlBlock},
		"INI":         {Single: []string{"#", ";"}},
		"TOML":        {Single: hash},
		"YAML":        {Single: hash},
		"JSON":        {Single: slashes, Blocks: cBlock},
		"XML":         {Blocks: xmlBlock},
		"CSS":         {Blocks: cBlock},
		"SCSS":        {Single: slashes, Blocks: cBlock},
		"SASS":        {Single: slashes, Blocks: cBlock},
		"LESS":        {Single: slashes, Blocks: cBlock},
		"Vue":         {Single: slashes, Blocks: []BlockPair{{Start: "<!--", End: "-->"}, {Start: "/*", End: "*/"}}},
		"Svelte":      {Single: slashes, Blocks: []BlockPair{{Start: "<!--", End: "-->"}, {Start: "/*", End: "*/"}}},
		"PowerShell":  {Single: hash, Blocks: []BlockPair{{Start: "<#", End: "#>"}}},
	}
)

// Unknown 无法识别语言时使用的标记
const Unknown = "Unknown"

// DetectLanguage 先按完整文件名，再按扩展名（大小写不敏感）识别语言
// 第二个返回值表示语言是否被识别
func DetectLanguage(filePath string) (string, bool) {
	base := filepath.Base(filePath)
	if lang, ok := FileNameToLang[base]; ok {
		return lang, true
	}
	if strings.HasPrefix(base, ".env.") {
		return "Dotenv", true
	}
	ext := strings.ToLower(filepath.Ext(base))
	if lang, ok := ExtToLang[ext]; ok {
		return lang, true
	}
	return Unknown, false
}

// StyleFor 返回语言的注释风格，未知语言返回零值
func StyleFor(lang string) CommentStyle {
	return LangToComment[lang]
}

func hasSingleLineCommentPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
