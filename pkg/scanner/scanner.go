// Package scanner 自顶向下遍历项目目录，构建条目树并收集排除、脱敏和错误记录
package scanner

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/yeisme/codetree/pkg/models"
	"github.com/yeisme/codetree/pkg/utils/diskusage"
	"github.com/yeisme/codetree/pkg/utils/exclude"
)

// DefaultMaxContentBytes 超过该大小的文件以流式统计，不在报告中附带正文
const DefaultMaxContentBytes = 1 << 20

// Options 扫描选项
type Options struct {
	Root            string          // 扫描根目录
	Policy          *exclude.Policy // 为 nil 时只使用内置规则
	Concurrency     int             // <=0 时使用 CPU 核心数
	MaxContentBytes int64           // <=0 时使用 DefaultMaxContentBytes
}

// Result 一次扫描的全部产出，各列表均按深度优先先序排列
type Result struct {
	Root       *models.Entry
	Exclusions []models.ExclusionRecord
	Redactions []models.RedactionRecord
	Errors     []models.EntryError
}

// Scanner 单次使用的目录扫描器
type Scanner struct {
	opts Options
	sem  *semaphore.Weighted
}

// New 创建扫描器
func New(opts Options) *Scanner {
	if opts.MaxContentBytes <= 0 {
		opts.MaxContentBytes = DefaultMaxContentBytes
	}
	conc := prepareConcurrency(opts.Concurrency)
	return &Scanner{opts: opts, sem: semaphore.NewWeighted(int64(conc))}
}

// prepareConcurrency 确定并发数：用户指定的正数，否则为 CPU 核心数，至少为 1
func prepareConcurrency(c int) int {
	if c > 0 {
		return c
	}
	return max(runtime.NumCPU(), 1)
}

// node 一个子树的扫描结果，由唯一的任务写入，父目录按顺序合并
type node struct {
	entry      *models.Entry
	exclusions []models.ExclusionRecord
	redactions []models.RedactionRecord
	errors     []models.EntryError
}

func (n *node) merge(c *node) {
	n.exclusions = append(n.exclusions, c.exclusions...)
	n.redactions = append(n.redactions, c.redactions...)
	n.errors = append(n.errors, c.errors...)
}

func (n *node) fail(e *models.Entry, err error) {
	e.Error = models.NewEntryError(e.Path, err)
	n.errors = append(n.errors, *e.Error)
}

// Scan 执行扫描，根目录不存在或不是目录时返回错误，其它文件系统错误记录在对应条目上
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", s.opts.Root, err)
	}
	st, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", models.ErrRootNotDirectory, root)
	}
	if s.opts.Policy == nil {
		s.opts.Policy = exclude.NewPolicy(exclude.Options{Root: root})
	}

	start := time.Now()
	rootEntry := &models.Entry{
		Path:    ".",
		AbsPath: root,
		Name:    filepath.Base(root),
		Kind:    models.KindDir,
	}
	n := s.scanDir(ctx, rootEntry)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debug().
		Str("root", root).
		Int("files", rootEntry.FileCount).
		Int("excluded", len(n.exclusions)).
		Int("errors", len(n.errors)).
		Dur("elapsed", time.Since(start)).
		Msg("scan finished")

	return &Result{
		Root:       rootEntry,
		Exclusions: n.exclusions,
		Redactions: n.redactions,
		Errors:     n.errors,
	}, nil
}

// scanDir 读取一个目录并处理其全部子项
// 子项按名称字典序排列，每个子项的结果写入独立的槽位，全部完成后按顺序合并
func (s *Scanner) scanDir(ctx context.Context, dir *models.Entry) *node {
	n := &node{entry: dir}
	if ctx.Err() != nil {
		return n
	}

	dirents, err := os.ReadDir(dir.AbsPath)
	if err != nil {
		// ReadDir 出错时仍可能返回部分条目
		n.fail(dir, err)
	}

	slots := make([]*node, len(dirents))
	var wg sync.WaitGroup
	for i, d := range dirents {
		task := func() { slots[i] = s.visit(ctx, dir, d) }
		if s.sem.TryAcquire(1) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer s.sem.Release(1)
				task()
			}()
			continue
		}
		// 没有空闲槽位时在当前 goroutine 内执行，避免递归等待造成死锁
		task()
	}
	wg.Wait()

	for _, c := range slots {
		if c == nil {
			continue
		}
		n.merge(c)
		if c.entry == nil {
			continue
		}
		dir.Children = append(dir.Children, c.entry)
		dir.Size.Add(c.entry.Size)
		dir.Lines.Add(c.entry.Lines)
		if c.entry.IsFile() {
			dir.FileCount++
		} else {
			dir.FileCount += c.entry.FileCount
		}
	}
	return n
}

// visit 处理目录中的一个子项，返回 nil 表示该子项被忽略（如设备文件）
func (s *Scanner) visit(ctx context.Context, parent *models.Entry, d os.DirEntry) *node {
	if ctx.Err() != nil {
		return nil
	}
	name := d.Name()
	rel := name
	if parent.Path != "." {
		rel = path.Join(parent.Path, name)
	}
	abs := filepath.Join(parent.AbsPath, name)

	var kind models.EntryKind
	switch mode := d.Type(); {
	case mode&os.ModeSymlink != 0:
		kind = models.KindSymlink
	case mode.IsDir():
		kind = models.KindDir
	case mode.IsRegular():
		kind = models.KindFile
	default:
		// 命名管道、套接字、设备文件读取时可能阻塞
		log.Debug().Str("path", rel).Str("mode", mode.String()).Msg("skip special file")
		return nil
	}

	decision := s.opts.Policy.Decide(rel, abs, kind)
	if decision.Excluded() {
		return s.excluded(rel, abs, kind, decision)
	}

	entry := &models.Entry{
		Path:    rel,
		AbsPath: abs,
		Name:    name,
		Kind:    kind,
		Depth:   parent.Depth + 1,
	}
	switch kind {
	case models.KindDir:
		return s.scanDir(ctx, entry)
	case models.KindSymlink:
		n := &node{entry: entry}
		target, err := os.Readlink(abs)
		if err != nil {
			n.fail(entry, err)
		}
		entry.SymlinkTarget = target
		return n
	default:
		return s.scanFile(entry)
	}
}

// excluded 记录一次排除，目录只估算大小，从不读取其中文件的内容
func (s *Scanner) excluded(rel, abs string, kind models.EntryKind, d models.ExclusionDecision) *node {
	rec := models.ExclusionRecord{
		Path:      rel,
		Kind:      kind,
		Rule:      d.Rule,
		Reason:    d.Reason,
		Signature: d.Signature,
	}
	if kind == models.KindDir {
		rec.Size, rec.FileCount = diskusage.Tree(abs)
	} else {
		if m, err := diskusage.Measure(abs); err == nil {
			rec.Size = m
		}
		rec.FileCount = 1
	}
	log.Trace().Str("path", rel).Str("rule", string(d.Rule)).Msg("excluded")
	return &node{exclusions: []models.ExclusionRecord{rec}}
}
