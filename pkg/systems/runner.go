package systems

import (
	"sort"

	"github.com/decker502/invaders/pkg/timing"
)

// Phase 定义单个 tick 内的执行顺序
type Phase int

const (
	PhaseInput      Phase = iota // 0: 消费玩家指令
	PhaseSpawn                   // 1: 波次推进与生成
	PhaseUpdate                  // 2: 移动与开火
	PhaseCollision               // 3: 碰撞结算
	PhasePostUpdate              // 4: 护盾追踪/再生、死亡动画
	PhaseOutput                  // 5: 分发事件、音频反馈
)

// System 每个 tick 被调用一次
// 同一 tick 内所有系统收到相同的 now
type System interface {
	Phase() Phase
	Update(now timing.Tick)
}

// Runner 按阶段顺序执行系统，同阶段保持注册顺序
type Runner struct {
	systems []System
	sorted  bool
}

// NewRunner 创建系统执行器
func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

// Register 注册系统
func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Len 已注册系统数
func (r *Runner) Len() int {
	return len(r.systems)
}

// Tick 以同一个 now 依次执行所有系统
func (r *Runner) Tick(now timing.Tick) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(now)
	}
}

// TickPhase 只执行指定阶段的系统
func (r *Runner) TickPhase(phase Phase, now timing.Tick) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(now)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
