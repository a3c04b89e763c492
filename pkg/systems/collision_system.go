package systems

import (
	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/entities"
	"github.com/decker502/invaders/pkg/event"
	"github.com/decker502/invaders/pkg/timing"
)

// CollisionSystem 子弹碰撞结算（AABB 重叠）
//
//   - 玩家子弹 → 敌人：扣血，击毁时生成死亡动画并发布 HostileKilled
//   - 玩家子弹穿过自己飞船的追踪护盾：登记一次修复命中，子弹继续飞行
//   - 外星人子弹 → 护盾：TakeDamage(1)，子弹消失
//   - 外星人子弹 → 玩家飞船：扣血并发布 PlayerHit，击毁时生成死亡动画
//
// 每颗子弹每 tick 最多命中一个目标，候选目标按实体 ID 升序。
type CollisionSystem struct {
	entityManager *ecs.EntityManager
	species       *config.SpeciesTable
	shields       *ShieldSystem
	bus           *event.Bus
	log           *zap.Logger
}

// NewCollisionSystem 创建碰撞系统
func NewCollisionSystem(em *ecs.EntityManager, species *config.SpeciesTable, shields *ShieldSystem, bus *event.Bus, log *zap.Logger) *CollisionSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CollisionSystem{
		entityManager: em,
		species:       species,
		shields:       shields,
		bus:           bus,
		log:           log.Named("collision"),
	}
}

func (s *CollisionSystem) Phase() Phase {
	return PhaseCollision
}

type rect struct {
	x, y, w, h float64
}

func (a rect) overlaps(b rect) bool {
	return a.x < b.x+b.w && b.x < a.x+a.w && a.y < b.y+b.h && b.y < a.y+a.h
}

func (s *CollisionSystem) bounds(id ecs.EntityID) (rect, bool) {
	pos, ok1 := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	box, ok2 := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
	if !ok1 || !ok2 {
		return rect{}, false
	}
	return rect{pos.X, pos.Y, box.Width, box.Height}, true
}

// Update 结算本 tick 所有子弹
func (s *CollisionSystem) Update(now timing.Tick) {
	em := s.entityManager
	for _, id := range ecs.GetEntitiesWith1[*components.ProjectileComponent](em) {
		if !em.Exists(id) {
			continue
		}
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
		r, ok := s.bounds(id)
		if !ok {
			continue
		}
		if proj.FromPlayer {
			s.resolvePlayerShot(id, proj, r, now)
		} else {
			s.resolveAlienShot(id, proj, r, now)
		}
	}
}

func (s *CollisionSystem) resolvePlayerShot(id ecs.EntityID, proj *components.ProjectileComponent, r rect, now timing.Tick) {
	em := s.entityManager

	for _, shieldID := range ecs.GetEntitiesWith1[*components.ShieldComponent](em) {
		sh, _ := ecs.GetComponent[*components.ShieldComponent](em, shieldID)
		if sh.Owner != proj.Owner || sh.Owner == ecs.InvalidEntity || proj.LastShield == shieldID {
			continue
		}
		if sr, ok := s.bounds(shieldID); ok && r.overlaps(sr) {
			proj.LastShield = shieldID
			s.shields.RegisterRechargeHit(shieldID)
		}
	}

	for _, target := range ecs.GetEntitiesWith1[*components.HostileComponent](em) {
		tr, ok := s.bounds(target)
		if !ok || !r.overlaps(tr) {
			continue
		}
		em.DestroyEntity(id)
		s.damageHostile(target, proj, tr, now)
		return
	}
}

func (s *CollisionSystem) damageHostile(target ecs.EntityID, proj *components.ProjectileComponent, tr rect, now timing.Tick) {
	em := s.entityManager
	hostile, _ := ecs.GetComponent[*components.HostileComponent](em, target)

	health, ok := ecs.GetComponent[*components.HealthComponent](em, target)
	if ok {
		health.CurrentHealth -= proj.Damage
		if health.CurrentHealth > 0 {
			if s.bus != nil {
				event.Emit(s.bus, event.ProjectileHit{Target: target})
			}
			return
		}
	}

	em.DestroyEntity(target)
	if sp, err := s.species.Lookup(hostile.Species); err == nil {
		entities.NewDeathAnimation(em, hostile.Species, sp, tr.x, tr.y, now)
	}
	if s.bus != nil {
		event.Emit(s.bus, event.HostileKilled{
			Entity:  target,
			Species: hostile.Species,
			Score:   hostile.Score,
			Player:  proj.Player,
			X:       tr.x,
			Y:       tr.y,
		})
	}
}

func (s *CollisionSystem) resolveAlienShot(id ecs.EntityID, proj *components.ProjectileComponent, r rect, now timing.Tick) {
	em := s.entityManager

	for _, shieldID := range ecs.GetEntitiesWith1[*components.ShieldComponent](em) {
		sr, ok := s.bounds(shieldID)
		if !ok || !r.overlaps(sr) {
			continue
		}
		em.DestroyEntity(id)
		s.shields.TakeDamage(shieldID, proj.Damage, now)
		return
	}

	for _, shipID := range ecs.GetEntitiesWith1[*components.PlayerShipComponent](em) {
		sr, ok := s.bounds(shipID)
		if !ok || !r.overlaps(sr) {
			continue
		}
		em.DestroyEntity(id)
		s.damageShip(shipID, proj.Damage, sr, now)
		return
	}
}

func (s *CollisionSystem) damageShip(shipID ecs.EntityID, damage int, sr rect, now timing.Tick) {
	em := s.entityManager
	ship, _ := ecs.GetComponent[*components.PlayerShipComponent](em, shipID)

	destroyed := true
	if health, ok := ecs.GetComponent[*components.HealthComponent](em, shipID); ok {
		health.CurrentHealth -= damage
		destroyed = health.CurrentHealth <= 0
	}

	if destroyed {
		em.DestroyEntity(shipID)
		if sp, err := s.species.Lookup(config.SpeciesPlayer); err == nil {
			entities.NewDeathAnimation(em, config.SpeciesPlayer, sp, sr.x, sr.y, now)
		}
		s.log.Info("player ship destroyed", zap.Int("player", ship.Index+1))
	}
	if s.bus != nil {
		event.Emit(s.bus, event.PlayerHit{Player: ship.Index, Ship: shipID, Destroyed: destroyed})
	}
}
