package systems

import (
	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/input"
	"github.com/decker502/invaders/pkg/timing"
)

// PlayerControlSystem 把玩家输入状态应用到飞船
//
//   - 移动标志决定飞船水平速度
//   - 开火脉冲调用 TryFire，被冷却或上限拒绝的脉冲直接丢弃
//   - 确认脉冲在波次间暂停时跳过等待，其余时候忽略
type PlayerControlSystem struct {
	entityManager *ecs.EntityManager
	players       []input.PlayerState
	firing        *FiringSystem
	waves         *WaveSystem
}

// NewPlayerControlSystem 创建玩家控制系统
// players 与会话共享底层数组，按下标访问
func NewPlayerControlSystem(em *ecs.EntityManager, players []input.PlayerState, firing *FiringSystem, waves *WaveSystem) *PlayerControlSystem {
	return &PlayerControlSystem{
		entityManager: em,
		players:       players,
		firing:        firing,
		waves:         waves,
	}
}

func (s *PlayerControlSystem) Phase() Phase {
	return PhaseInput
}

func (s *PlayerControlSystem) Update(now timing.Tick) {
	for i := range s.players {
		p := &s.players[i]

		if p.ConsumeConfirm() && s.waves != nil {
			s.waves.Skip(now)
		}

		fire := p.ConsumeFire()
		if p.Ship == ecs.InvalidEntity || !s.entityManager.Exists(p.Ship) {
			continue
		}

		if vel, ok := ecs.GetComponent[*components.VelocityComponent](s.entityManager, p.Ship); ok {
			speed := 0.0
			if ship, ok := ecs.GetComponent[*components.PlayerShipComponent](s.entityManager, p.Ship); ok {
				speed = ship.Speed
			}
			vel.VX = p.Direction() * speed
		}

		if fire {
			s.firing.TryFire(p.Ship, now)
		}
	}
}
