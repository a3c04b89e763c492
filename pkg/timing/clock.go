// Package timing 提供模拟核心使用的单调毫秒时钟与通用定时状态机
//
// 所有系统在同一个 tick 内必须使用同一个 Tick 值进行比较，
// 因此时钟只在 Session.Update 开始时读取一次，再向下传递。
package timing

import "time"

// Tick 单调毫秒计数
type Tick int64

// Clock 时钟源接口
type Clock interface {
	// Now 返回当前的单调毫秒数
	Now() Tick
}

// SystemClock 基于 time.Since 的单调时钟
// time.Time 自带单调读数，不受系统时间调整影响
type SystemClock struct {
	origin time.Time
}

// NewSystemClock 创建以当前时刻为零点的系统时钟
func NewSystemClock() *SystemClock {
	return &SystemClock{origin: time.Now()}
}

// Now 返回自创建以来经过的毫秒数
func (c *SystemClock) Now() Tick {
	return Tick(time.Since(c.origin).Milliseconds())
}

// ManualClock 手动推进的时钟（测试用）
type ManualClock struct {
	now Tick
}

// NewManualClock 创建从 start 开始的手动时钟
func NewManualClock(start Tick) *ManualClock {
	return &ManualClock{now: start}
}

// Now 返回当前时间
func (c *ManualClock) Now() Tick {
	return c.now
}

// Advance 向前推进 ms 毫秒，负值被忽略（时钟单调）
func (c *ManualClock) Advance(ms int64) Tick {
	if ms > 0 {
		c.now += Tick(ms)
	}
	return c.now
}

// Set 设置时钟，早于当前时间的值被忽略
func (c *ManualClock) Set(t Tick) {
	if t > c.now {
		c.now = t
	}
}
