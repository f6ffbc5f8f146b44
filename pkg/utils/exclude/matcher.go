package exclude

import (
	"path"
	"strings"
)

// normalizePattern 将用户传入的模式标准化为使用 `/` 的路径形式并去掉前导的 `./` 或 `.\`
func normalizePattern(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if after, ok := strings.CutPrefix(p, "./"); ok {
		p = after
	}
	return p
}

// userPatternMatches 检查相对路径是否匹配某个用户排除模式
// 支持的写法:
//  1. glob（`*.log`、`docs/*.md`），不含 `/` 的 glob 同时匹配基础名
//  2. `dir/*` 或 `dir/` 形式，匹配目录本身及其全部子项
//  3. 普通前缀（`pkg`、`pkg/some`）
func userPatternMatches(rel, p string) bool {
	if ok, _ := path.Match(p, rel); ok {
		return true
	}
	if !strings.Contains(p, "/") {
		if ok, _ := path.Match(p, path.Base(rel)); ok {
			return true
		}
	}
	if strings.HasSuffix(p, "/*") || strings.HasSuffix(p, "/") {
		prefix := strings.TrimSuffix(strings.TrimSuffix(p, "*"), "/")
		return prefix == rel || strings.HasPrefix(rel, prefix+"/")
	}
	return p == rel || strings.HasPrefix(rel, p+"/")
}

// nameMatches 规则表中的名字：含 `/` 时按相对路径匹配，否则按基础名匹配（任意层级）
func nameMatches(rel, pattern string) bool {
	if strings.Contains(pattern, "/") {
		ok, _ := path.Match(strings.Trim(pattern, "/"), rel)
		return ok
	}
	ok, _ := path.Match(pattern, path.Base(rel))
	return ok
}
