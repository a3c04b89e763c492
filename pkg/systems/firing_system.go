package systems

import (
	"math/rand"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/entities"
	"github.com/decker502/invaders/pkg/event"
	"github.com/decker502/invaders/pkg/timing"
)

// FiringSystem 冷却门控开火
//
// TryFire 同时检查冷却与子弹上限，拒绝是正常结果：不改状态、不建子弹、不记日志。
// 子弹数量按所有者统计，不区分子弹类型。
type FiringSystem struct {
	entityManager *ecs.EntityManager
	bus           *event.Bus
	rng           *rand.Rand
}

// NewFiringSystem 创建开火系统
func NewFiringSystem(em *ecs.EntityManager, bus *event.Bus, rng *rand.Rand) *FiringSystem {
	return &FiringSystem{
		entityManager: em,
		bus:           bus,
		rng:           rng,
	}
}

// LiveProjectiles 统计 owner 拥有的存活子弹
func (s *FiringSystem) LiveProjectiles(owner ecs.EntityID) int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.ProjectileComponent](s.entityManager) {
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](s.entityManager, id)
		if proj.Owner == owner {
			count++
		}
	}
	return count
}

// TryFire 尝试让 actor 开火
// 成功条件：now >= NextFireTick 且存活子弹数 < MaxBullets
// 成功后创建一颗子弹，并以 now + uniform[min, max] 作为下一次可开火时刻
func (s *FiringSystem) TryFire(actor ecs.EntityID, now timing.Tick) bool {
	if !s.entityManager.Exists(actor) {
		return false
	}
	gate, ok := ecs.GetComponent[*components.FireGateComponent](s.entityManager, actor)
	if !ok {
		return false
	}
	if now < gate.NextFireTick {
		return false
	}
	if s.LiveProjectiles(actor) >= gate.Profile.MaxBullets {
		return false
	}

	pos, ok1 := ecs.GetComponent[*components.PositionComponent](s.entityManager, actor)
	box, ok2 := ecs.GetComponent[*components.CollisionComponent](s.entityManager, actor)
	if !ok1 || !ok2 {
		return false
	}

	spec := entities.ProjectileSpec{
		Owner:   actor,
		CenterX: pos.X + box.Width/2,
		VY:      gate.Profile.BulletSpeed * gate.Direction,
	}
	if gate.Direction < 0 {
		spec.Y = pos.Y - entities.ProjectileHeight
	} else {
		spec.Y = pos.Y + box.Height
	}
	ship, isPlayer := ecs.GetComponent[*components.PlayerShipComponent](s.entityManager, actor)
	if isPlayer {
		spec.FromPlayer = true
		spec.Player = ship.Index
	}
	entities.NewProjectile(s.entityManager, spec)

	interval := timing.DrawInterval(s.rng, gate.Profile.MinIntervalMs, gate.Profile.MaxIntervalMs)
	gate.NextFireTick = now + timing.Tick(interval)

	if s.bus != nil {
		event.Emit(s.bus, event.ShotFired{Shooter: actor, Species: gate.Species, Player: isPlayer})
	}
	return true
}
