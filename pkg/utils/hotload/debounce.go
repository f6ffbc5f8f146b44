package hotload

import (
	"time"
)

// debouncer 在事件循环内使用的防抖定时器，只由一个 goroutine 操作
// 每次 arm 都会把触发时间推迟到最后一次变化之后的 delay
type debouncer struct {
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay}
}

// arm 启动或重置定时器
func (d *debouncer) arm() {
	if d.timer == nil {
		d.timer = time.NewTimer(d.delay)
		return
	}
	d.timer.Reset(d.delay)
}

// C 返回触发通道，未启动时返回 nil，select 中永远不会就绪
func (d *debouncer) C() <-chan time.Time {
	if d.timer == nil {
		return nil
	}
	return d.timer.C
}

// fired 在触发后调用，下一次变化重新开始计时
func (d *debouncer) fired() {
	d.timer = nil
}

func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
