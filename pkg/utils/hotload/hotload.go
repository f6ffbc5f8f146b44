// Package hotload 监视项目目录的变化，在防抖之后重新触发一次分析
//
// 每次触发都只是一个信号，钩子本身负责完整地重新扫描，不复用上一次的结果
package hotload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yeisme/codetree/pkg/utils/log"
)

// DefaultDebounce 未配置防抖时长时使用的默认值
const DefaultDebounce = 300 * time.Millisecond

// Func 变化稳定后调用的钩子，同一时刻最多只有一个钩子在运行
type Func func(ctx context.Context)

// IgnoreFunc 根据相对根目录、以 / 分隔的路径判断是否忽略
// 一般由扫描使用的排除策略提供，使监视范围与报告范围一致
type IgnoreFunc func(rel string, isDir bool) bool

// Options 监视选项
type Options struct {
	Root           string
	Debounce       time.Duration
	IgnorePatterns []string // 额外忽略的文件名 glob，例如编辑器的临时文件
	Ignore         IgnoreFunc
}

// Watcher 递归监视一个目录树
type Watcher struct {
	root     string
	opts     Options
	watcher  *fsnotify.Watcher
	cache    stateCache
	throttle *throttle
}

// New 创建 watcher 并注册根目录下所有未被忽略的目录
func New(opts Options) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建 watcher 失败: %w", err)
	}

	w := &Watcher{
		root:     root,
		opts:     opts,
		watcher:  fw,
		cache:    make(stateCache),
		throttle: newThrottle(),
	}
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}

	log.Debug().
		Str("root", root).
		Int("files", len(w.cache)).
		Dur("debounce", opts.Debounce).
		Msg("watcher initialized")
	return w, nil
}

// Close 释放底层 fsnotify watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// addTree 注册 dir 及其所有未被忽略的子目录，并记录其中文件的初始状态
func (w *Watcher) addTree(dir string) error {
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			// 子目录不可读时跳过，监视其余部分
			log.Debug().Err(err).Str("path", path).Msg("skip unreadable path")
			return nil
		}
		if path != w.root && w.ignored(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("failed to add path to watcher, skipping")
			}
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				w.cache[path] = newFileState(path, info)
			}
		}
		return nil
	}

	if err := filepath.WalkDir(dir, walkFunc); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}

// Run 处理文件系统事件直到 ctx 结束，变化稳定 Debounce 时长后调用 hook
func (w *Watcher) Run(ctx context.Context, hook Func) error {
	defer func() {
		if err := w.Close(); err != nil {
			log.Error().Err(err).Msg("关闭 watcher 失败")
		}
	}()

	d := newDebouncer(w.opts.Debounce)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				d.arm()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// 事件丢失时无法判断是否有变化，直接重新分析
				log.Warn().Err(err).Msg("watcher event overflow")
				d.arm()
				continue
			}
			log.Error().Err(err).Msg("watcher error")

		case <-d.C():
			d.fired()
			log.Info().Str("root", w.root).Msg("change detected, re-running analysis")
			hook(ctx)
		}
	}
}

// Watch 创建 watcher 并阻塞运行，直到 ctx 结束
func Watch(ctx context.Context, opts Options, hook Func) error {
	w, err := New(opts)
	if err != nil {
		return err
	}
	return w.Run(ctx, hook)
}

// rel 将绝对路径转换为相对根目录、以 / 分隔的形式
func (w *Watcher) rel(path string) string {
	r, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(r)
}

// ignored 判断路径是否需要忽略：先看文件名模式，再交给调用方的排除策略
func (w *Watcher) ignored(path string, isDir bool) bool {
	if !isDir && matchesAny(filepath.Base(path), w.opts.IgnorePatterns) {
		w.throttle.ignore("patterns", path)
		return true
	}
	if w.opts.Ignore != nil && w.opts.Ignore(w.rel(path), isDir) {
		w.throttle.ignore("exclusion policy", path)
		return true
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
