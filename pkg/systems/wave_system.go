package systems

import (
	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/event"
	"github.com/decker502/invaders/pkg/timing"
)

// WaveState 波次控制器状态
type WaveState int

const (
	WaveNotStarted WaveState = iota
	WavePlaying
	WaveBetween
	WaveFinished
)

func (s WaveState) String() string {
	switch s {
	case WaveNotStarted:
		return "not_started"
	case WavePlaying:
		return "playing"
	case WaveBetween:
		return "between_waves"
	case WaveFinished:
		return "finished"
	}
	return "unknown"
}

// WaveSystem 波次控制器
//
// 状态转换：
//   - Playing(i) → BetweenWaves(i+1, resume)：本波所有物种配额用完且没有存活敌人，
//     resume = 转换时刻 + NewWavePauseMs
//   - BetweenWaves → Playing(i+1)：now >= resume（或玩家确认跳过）
//   - 最后一波清空后进入 Finished
//
// 暂停用截止时刻表示，与帧率无关。
type WaveSystem struct {
	entityManager *ecs.EntityManager
	waves         *config.WaveTable
	spawner       *SpawnSystem
	bus           *event.Bus
	log           *zap.Logger

	state     WaveState
	waveIndex int
	pause     timing.Timer
	halted    bool
}

// NewWaveSystem 创建波次控制器
func NewWaveSystem(em *ecs.EntityManager, waves *config.WaveTable, spawner *SpawnSystem, bus *event.Bus, log *zap.Logger) *WaveSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &WaveSystem{
		entityManager: em,
		waves:         waves,
		spawner:       spawner,
		bus:           bus,
		log:           log.Named("wave"),
		pause:         timing.NewIntervalTimer(waves.NewWavePauseMs),
	}
}

// Phase 在生成系统之前执行，同一 tick 开始的波次立即开始调度
func (s *WaveSystem) Phase() Phase {
	return PhaseSpawn
}

// Start 开始第一波
func (s *WaveSystem) Start(now timing.Tick) {
	s.startWave(0, now)
}

func (s *WaveSystem) startWave(index int, now timing.Tick) {
	wave, ok := s.waves.At(index)
	if !ok {
		s.finish(now)
		return
	}
	s.state = WavePlaying
	s.waveIndex = index
	s.pause.Stop()
	s.spawner.StartWave(index, wave, now)

	if s.bus != nil {
		event.Emit(s.bus, event.WaveStarted{Wave: index})
	}
	s.log.Info("wave started", zap.Int("wave", index+1), zap.Int("of", s.waves.Len()), zap.Int64("tick", int64(now)))
}

// Update 推进波次状态
func (s *WaveSystem) Update(now timing.Tick) {
	if s.halted {
		return
	}
	switch s.state {
	case WavePlaying:
		if !s.spawner.Exhausted() || s.LiveHostiles() > 0 {
			return
		}
		cleared := s.waveIndex
		if s.bus != nil {
			event.Emit(s.bus, event.WaveCleared{Wave: cleared})
		}
		if cleared+1 >= s.waves.Len() {
			s.finish(now)
			return
		}
		s.state = WaveBetween
		s.waveIndex = cleared + 1
		s.pause.Start(now)
		s.log.Info("wave cleared",
			zap.Int("wave", cleared+1),
			zap.Int64("resume_tick", int64(s.pause.Deadline())))

	case WaveBetween:
		if s.pause.Advance(now).Kind == timing.TransitionTick {
			s.startWave(s.waveIndex, now)
		}
	}
}

// Skip 跳过波次间暂停，立即开始下一波；其他状态忽略
func (s *WaveSystem) Skip(now timing.Tick) bool {
	if s.halted || s.state != WaveBetween {
		return false
	}
	s.log.Debug("between-wave pause skipped", zap.Int("wave", s.waveIndex+1))
	s.startWave(s.waveIndex, now)
	return true
}

// Halt 终止波次推进（所有飞船被摧毁）
// 之后 Update 与 Skip 不再有任何效果，状态停留在终止时刻
func (s *WaveSystem) Halt() {
	if s.halted {
		return
	}
	s.halted = true
	s.pause.Stop()
	s.spawner.Stop()
	s.log.Info("waves halted", zap.String("state", s.state.String()), zap.Int("wave", s.waveIndex+1))
}

// Halted 是否已终止
func (s *WaveSystem) Halted() bool {
	return s.halted
}

func (s *WaveSystem) finish(now timing.Tick) {
	s.state = WaveFinished
	s.spawner.Stop()
	if s.bus != nil {
		event.Emit(s.bus, event.GameFinished{Waves: s.waves.Len()})
	}
	s.log.Info("all waves cleared", zap.Int("waves", s.waves.Len()), zap.Int64("tick", int64(now)))
}

// LiveHostiles 存活敌人数量
func (s *WaveSystem) LiveHostiles() int {
	return len(ecs.GetEntitiesWith1[*components.HostileComponent](s.entityManager))
}

// State 当前状态
func (s *WaveSystem) State() WaveState {
	return s.state
}

// WaveIndex 正在进行的波次（BetweenWaves 时为即将开始的波次）
func (s *WaveSystem) WaveIndex() int {
	return s.waveIndex
}

// ResumeTick 波次间暂停的结束时刻，仅在 BetweenWaves 时有意义
func (s *WaveSystem) ResumeTick() timing.Tick {
	return s.pause.Deadline()
}
