package hotload

import (
	"crypto/md5"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/yeisme/codetree/pkg/utils/log"
)

// maxHashSize 超过该大小的文件只比较大小与修改时间
const maxHashSize = 1024 * 1024

// builtinIgnorePatterns 始终忽略的临时文件，包括报告写出过程中的临时文件
var builtinIgnorePatterns = []string{
	"*.tmp", "*.swp", "*.swx", "*~", "~*", "4913", ".#*",
}

// fileState 文件的元数据和内容哈希，用于判断是否是真实变化
type fileState struct {
	modTime time.Time
	size    int64
	hash    string // 小文件内容的 MD5，其它情况为空
}

// stateCache 文件路径到上一次已知状态的映射
type stateCache map[string]fileState

func newFileState(name string, info fs.FileInfo) fileState {
	st := fileState{modTime: info.ModTime(), size: info.Size()}
	if info.Mode().IsRegular() && info.Size() <= maxHashSize && isSignificantFile(name) {
		st.hash = calculateFileHash(name)
	}
	return st
}

// calculateFileHash 计算文件内容的 MD5，读取失败时返回空字符串
func calculateFileHash(filePath string) string {
	file, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Error().Err(err).Str("path", filePath).Msg("failed to close file")
		}
	}()

	hash := md5.New()
	if _, err := io.Copy(hash, io.LimitReader(file, maxHashSize+1)); err != nil {
		return ""
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// isSignificantFile 源码与配置文件使用哈希判断内容变化
func isSignificantFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))

	significantExtensions := []string{
		".go", ".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".c", ".cpp", ".h", ".hpp",
		".rs", ".php", ".rb", ".cs", ".swift", ".kt", ".scala", ".clj", ".elm",
		".yaml", ".yml", ".json", ".toml", ".xml", ".ini", ".conf", ".cfg", ".env",
		".md", ".rst", ".txt", ".sql", ".sh", ".bash", ".zsh", ".fish",
		".html", ".css", ".scss", ".sass", ".less", ".vue", ".svelte",
	}
	if slices.Contains(significantExtensions, ext) {
		return true
	}

	fileName := strings.ToLower(filepath.Base(filePath))
	significantFiles := []string{
		"dockerfile", "makefile", "rakefile", "gemfile", "pipfile",
		"package.json", "composer.json", "cargo.toml", "go.mod", ".env",
	}
	return slices.Contains(significantFiles, fileName)
}

// matchesAny 文件名是否匹配内置或用户给出的任一 glob
func matchesAny(name string, patterns []string) bool {
	for _, group := range [][]string{builtinIgnorePatterns, patterns} {
		for _, p := range group {
			if ok, _ := path.Match(p, name); ok {
				return true
			}
		}
	}
	return false
}

// throttle 限制重复事件的日志数量
type throttle struct {
	mu     sync.Mutex
	counts map[string]int
}

func newThrottle() *throttle {
	return &throttle{counts: make(map[string]int)}
}

func (t *throttle) hit(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.counts[key]
	// 长时间运行时避免计数表无限增长
	if len(t.counts) > 4096 {
		clear(t.counts)
	}
	t.counts[key] = n + 1
	return n
}

// event 只记录前几次事件，之后每隔一定次数记录一次
func (t *throttle) event(op, name string) {
	count := t.hit(op + ":" + name)
	if count < 3 {
		log.Debug().Str("op", op).Str("path", name).Msg("fs event")
	} else if count%10 == 0 {
		log.Debug().Str("op", op).Str("path", name).Int("occurred", count+1).Msg("fs event")
	}
}

// ignore 第一次忽略时记录，之后每隔一定次数记录一次
func (t *throttle) ignore(reason, name string) {
	count := t.hit("ignore:" + reason + ":" + name)
	if count == 0 {
		log.Debug().Str("path", name).Str("reason", reason).Msg("ignoring path")
	} else if count%20 == 0 {
		log.Debug().Str("path", name).Str("reason", reason).Int("ignored", count+1).Msg("ignoring path")
	}
}
