package style

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner 是一个简单的终端旋转指示器，扫描期间提供轻量反馈
// 目标不是终端时 Start/Stop 不输出任何内容
type Spinner struct {
	out      io.Writer
	msg      string
	stopCh   chan struct{}
	doneCh   chan struct{}
	interval time.Duration
	enabled  bool
	once     sync.Once

	mu      sync.Mutex
	started bool
}

// NewSpinner 创建一个新的 Spinner
// out: 写入目标，一般为 os.Stderr，保证 stdout 只有报告内容
func NewSpinner(out io.Writer, msg string) *Spinner {
	return &Spinner{
		out:      out,
		msg:      msg,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		interval: 120 * time.Millisecond,
		enabled:  IsTerminal(out),
	}
}

// Start 启动 spinner，直到 Stop 被调用
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	if !s.enabled {
		close(s.doneCh)
		return
	}
	go func() {
		defer close(s.doneCh)
		frames := []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}
		i := 0
		_, _ = fmt.Fprintf(s.out, "%s %c\r", s.msg, frames[i])
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				// 清理整行
				_, _ = fmt.Fprintf(s.out, "\r\033[K")
				return
			case <-ticker.C:
				i = (i + 1) % len(frames)
				_, _ = fmt.Fprintf(s.out, "%s %c\r", s.msg, frames[i])
			}
		}
	}()
}

// Stop 停止 spinner，可重复调用，未 Start 时直接返回
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stopCh) })
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.doneCh
	}
}
