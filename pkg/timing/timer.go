package timing

// TransitionKind 定时器推进后产生的信号类型
type TransitionKind int

const (
	// TransitionPending 尚未到期（或尚未启动），无需处理
	TransitionPending TransitionKind = iota
	// TransitionContinue 帧式定时器仍在播放，Frame 为当前帧
	TransitionContinue
	// TransitionComplete 终止型帧定时器已越过最后一帧，持有者应销毁自身或复位
	TransitionComplete
	// TransitionTick 非帧式定时器周期已到
	TransitionTick
)

// Transition 一次 Advance 的结果
type Transition struct {
	Kind  TransitionKind
	Frame int
}

// Timer 通用定时状态机
//
// 三种用法共用同一份实现：
//   - 终止型帧定时器（死亡动画）：FrameCount > 0, Looping = false
//   - 循环帧定时器：FrameCount > 0, Looping = true
//   - 非帧式周期定时器（护盾再生、开火冷却、淡出）：FrameCount = 0
//
// Complete 一旦触发便保持，直到再次调用 Start。
type Timer struct {
	StartTick  Tick  // 开始时刻
	PeriodMs   int64 // 帧时长或周期（毫秒）
	FrameCount int   // 帧数，0 表示非帧式
	Looping    bool  // 帧式定时器是否循环

	started   bool
	completed bool
}

// NewFrameTimer 创建终止型帧定时器
func NewFrameTimer(frameCount int, frameMs int64) Timer {
	return Timer{PeriodMs: frameMs, FrameCount: frameCount}
}

// NewLoopTimer 创建循环帧定时器
func NewLoopTimer(frameCount int, frameMs int64) Timer {
	return Timer{PeriodMs: frameMs, FrameCount: frameCount, Looping: true}
}

// NewIntervalTimer 创建非帧式周期定时器
func NewIntervalTimer(periodMs int64) Timer {
	return Timer{PeriodMs: periodMs}
}

// Start 记录起始时刻并清除完成状态
func (t *Timer) Start(now Tick) {
	t.StartTick = now
	t.started = true
	t.completed = false
}

// Restart 以新的周期重新开始（冷却每次抽取新间隔时使用）
func (t *Timer) Restart(now Tick, periodMs int64) {
	t.PeriodMs = periodMs
	t.Start(now)
}

// Stop 回到未启动状态
func (t *Timer) Stop() {
	t.started = false
	t.completed = false
}

// Started 是否已启动
func (t *Timer) Started() bool {
	return t.started
}

// Completed 终止型定时器是否已完成
func (t *Timer) Completed() bool {
	return t.completed
}

// Elapsed 返回已经过的毫秒数，始终 >= 0
func (t *Timer) Elapsed(now Tick) int64 {
	if !t.started {
		return 0
	}
	elapsed := int64(now - t.StartTick)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// FrameIndex 返回 floor(elapsed / PeriodMs)
// PeriodMs <= 0 视为瞬时完成
func (t *Timer) FrameIndex(now Tick) int {
	if t.PeriodMs <= 0 {
		return t.FrameCount
	}
	return int(t.Elapsed(now) / t.PeriodMs)
}

// Deadline 返回周期到期的时刻
func (t *Timer) Deadline() Tick {
	return t.StartTick + Tick(t.PeriodMs)
}

// Ready 布尔门：未启动或已到期时为 true
func (t *Timer) Ready(now Tick) bool {
	if !t.started {
		return true
	}
	return t.Elapsed(now) >= t.PeriodMs
}

// Progress 返回 [0, 1] 区间的进度（淡入淡出用）
func (t *Timer) Progress(now Tick) float64 {
	if !t.started {
		return 0
	}
	if t.PeriodMs <= 0 {
		return 1
	}
	p := float64(t.Elapsed(now)) / float64(t.PeriodMs)
	if p > 1 {
		return 1
	}
	return p
}

// Advance 推进定时器并返回信号
func (t *Timer) Advance(now Tick) Transition {
	if !t.started {
		return Transition{Kind: TransitionPending}
	}
	if t.completed {
		return Transition{Kind: TransitionComplete, Frame: t.FrameCount}
	}

	if t.FrameCount == 0 {
		if t.Elapsed(now) >= t.PeriodMs {
			return Transition{Kind: TransitionTick}
		}
		return Transition{Kind: TransitionPending}
	}

	frame := t.FrameIndex(now)
	if t.Looping {
		return Transition{Kind: TransitionContinue, Frame: frame % t.FrameCount}
	}
	if frame >= t.FrameCount {
		t.completed = true
		return Transition{Kind: TransitionComplete, Frame: t.FrameCount}
	}
	return Transition{Kind: TransitionContinue, Frame: frame}
}
