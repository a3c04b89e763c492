package systems

import (
	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/timing"
)

// AlienFireSystem 每个 tick 让所有可开火的敌人尝试开火
// 是否真正开火完全由冷却与子弹上限决定
type AlienFireSystem struct {
	entityManager *ecs.EntityManager
	firing        *FiringSystem
}

// NewAlienFireSystem 创建敌方开火系统
func NewAlienFireSystem(em *ecs.EntityManager, firing *FiringSystem) *AlienFireSystem {
	return &AlienFireSystem{
		entityManager: em,
		firing:        firing,
	}
}

func (s *AlienFireSystem) Phase() Phase {
	return PhaseUpdate
}

func (s *AlienFireSystem) Update(now timing.Tick) {
	for _, id := range ecs.GetEntitiesWith2[*components.HostileComponent, *components.FireGateComponent](s.entityManager) {
		s.firing.TryFire(id, now)
	}
}
