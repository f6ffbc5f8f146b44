package hotload

import (
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yeisme/codetree/pkg/utils/log"
)

// handleEvent 判断一个事件是否代表真实的内容变化，并更新状态缓存
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	w.throttle.event(event.Op.String(), event.Name)

	if event.Name == w.root {
		return false
	}
	// 被删除的路径无法 stat，按缓存中是否存在判断类型
	_, tracked := w.cache[event.Name]
	dir := !tracked && isDir(event.Name)
	if w.ignored(event.Name, dir) {
		return false
	}

	switch {
	case event.Has(fsnotify.Create):
		return w.onCreate(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return w.onRemoveOrRename(event.Name)
	case event.Has(fsnotify.Write):
		return w.onWrite(event.Name)
	}
	return false
}

// onCreate 新文件视为变化；新目录注册到 watcher，其中已有的文件同样视为变化
func (w *Watcher) onCreate(name string) bool {
	info, err := os.Lstat(name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		if err := w.addTree(name); err != nil {
			log.Warn().Err(err).Str("path", name).Msg("failed to add new directory to watcher")
		} else {
			log.Debug().Str("path", name).Msg("added new directory to watcher")
		}
		// 空目录也会出现在报告的树中
		return true
	}
	w.cache[name] = newFileState(name, info)
	log.Debug().Str("path", name).Msg("new file created")
	return true
}

// onRemoveOrRename 删除或重命名：文件或目录都会改变报告
func (w *Watcher) onRemoveOrRename(name string) bool {
	delete(w.cache, name)
	// 目录被删除时，其下的文件不会逐个产生事件
	prefix := name + string(os.PathSeparator)
	for p := range w.cache {
		if strings.HasPrefix(p, prefix) {
			delete(w.cache, p)
		}
	}
	return true
}

// onWrite 比较前后状态，过滤掉内容没有变化的写入
// 编辑器先截断再写入的保存过程由防抖合并为一次触发
func (w *Watcher) onWrite(name string) bool {
	oldState, wasTracked := w.cache[name]
	info, err := os.Lstat(name)
	if err != nil {
		if wasTracked {
			delete(w.cache, name)
			log.Debug().Str("path", name).Msg("deleted after write event")
			return true
		}
		return false
	}
	if info.IsDir() {
		return false
	}

	newState := newFileState(name, info)
	if !wasTracked {
		w.cache[name] = newState
		log.Debug().Str("path", name).Msg("new file detected")
		return true
	}

	// 优先比较内容哈希
	if oldState.hash != "" && newState.hash != "" {
		w.cache[name] = newState
		if oldState.hash == newState.hash {
			log.Trace().Str("path", name).Msg("no content change (hash unchanged)")
			return false
		}
		log.Debug().Str("path", name).Msg("content changed")
		return true
	}

	// 退化为大小与修改时间比较
	const timeTolerance = 100 * time.Millisecond
	sizeChanged := newState.size != oldState.size
	timeChanged := newState.modTime.Sub(oldState.modTime).Abs() > timeTolerance
	w.cache[name] = newState
	if sizeChanged || timeChanged {
		log.Debug().Str("path", name).Msg("metadata changed")
		return true
	}
	log.Trace().Str("path", name).Msg("no significant change detected")
	return false
}
