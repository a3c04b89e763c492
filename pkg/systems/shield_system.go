package systems

import (
	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/event"
	"github.com/decker502/invaders/pkg/timing"
)

// ShieldSystem 护盾状态机
//
// 职责：
//   - TakeDamage / RegisterRechargeHit / Heal 三种阶段变化
//   - 追踪护盾每 tick 重新对齐到飞船上方，飞船消失的同一 tick 摧毁
//   - 固定掩体在受击暂停结束后被动再生，每 RegenDelayMs 最多一级
//
// 阶段索引越界属于调用方错误，这里在边界处钳制。
type ShieldSystem struct {
	entityManager *ecs.EntityManager
	cfg           *config.ShieldConfig
	bus           *event.Bus
	log           *zap.Logger
}

// NewShieldSystem 创建护盾系统
func NewShieldSystem(em *ecs.EntityManager, cfg *config.ShieldConfig, bus *event.Bus, log *zap.Logger) *ShieldSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ShieldSystem{
		entityManager: em,
		cfg:           cfg,
		bus:           bus,
		log:           log.Named("shield"),
	}
}

// Phase 在移动与碰撞之后执行，追踪位置使用飞船本 tick 的最终坐标
func (s *ShieldSystem) Phase() Phase {
	return PhasePostUpdate
}

func (s *ShieldSystem) shield(id ecs.EntityID) *components.ShieldComponent {
	sh, ok := ecs.GetComponent[*components.ShieldComponent](s.entityManager, id)
	if !ok || sh.Destroyed {
		return nil
	}
	return sh
}

// TakeDamage 受到 amount 级伤害
// 越过最后一级时立即摧毁并返回 true；已摧毁的护盾忽略后续调用
func (s *ShieldSystem) TakeDamage(id ecs.EntityID, amount int, now timing.Tick) bool {
	sh := s.shield(id)
	if sh == nil {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	sh.StageIndex += amount
	if sh.StageIndex >= s.cfg.Stages {
		sh.StageIndex = s.cfg.Stages - 1
		s.destroy(id, sh)
		return true
	}

	s.syncColor(id, sh)
	sh.Regen.Start(now)
	if s.bus != nil {
		event.Emit(s.bus, event.ShieldDamaged{Shield: id, Stage: sh.StageIndex})
	}
	return false
}

// RegisterRechargeHit 登记一次玩家子弹修复命中
// 每满 RepairHitsPerLevel 次提升一级（不超过 RepairCapIndex）并清零计数；返回是否提升
func (s *ShieldSystem) RegisterRechargeHit(id ecs.EntityID) bool {
	sh := s.shield(id)
	if sh == nil {
		return false
	}

	sh.RechargeHits++
	if sh.RechargeHits < s.cfg.RepairHitsPerLevel {
		return false
	}
	sh.RechargeHits = 0

	if sh.StageIndex <= s.cfg.RepairCapIndex {
		return false
	}
	sh.StageIndex--
	s.syncColor(id, sh)
	if s.bus != nil {
		event.Emit(s.bus, event.ShieldRepaired{Shield: id, Stage: sh.StageIndex})
	}
	return true
}

// Heal 向最佳阶段恢复 amount 级（下限 0），并重置受击时刻
func (s *ShieldSystem) Heal(id ecs.EntityID, amount int, now timing.Tick) bool {
	sh := s.shield(id)
	if sh == nil {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	before := sh.StageIndex
	sh.StageIndex -= amount
	if sh.StageIndex < 0 {
		sh.StageIndex = 0
	}
	sh.Regen.Start(now)

	if sh.StageIndex == before {
		return false
	}
	s.syncColor(id, sh)
	if s.bus != nil {
		event.Emit(s.bus, event.ShieldHealed{Shield: id, Stage: sh.StageIndex})
	}
	return true
}

// HealAll 治疗所有存活护盾，返回实际提升的数量
func (s *ShieldSystem) HealAll(amount int, now timing.Tick) int {
	healed := 0
	for _, id := range ecs.GetEntitiesWith1[*components.ShieldComponent](s.entityManager) {
		if s.Heal(id, amount, now) {
			healed++
		}
	}
	return healed
}

// Update 追踪与被动再生
func (s *ShieldSystem) Update(now timing.Tick) {
	for _, id := range ecs.GetEntitiesWith1[*components.ShieldComponent](s.entityManager) {
		sh := s.shield(id)
		if sh == nil {
			continue
		}

		if sh.Owner != ecs.InvalidEntity {
			s.track(id, sh)
			continue
		}

		if sh.StageIndex <= s.cfg.RegenCapIndex {
			continue
		}
		if sh.Regen.Advance(now).Kind == timing.TransitionTick {
			sh.StageIndex--
			sh.Regen.Start(now)
			s.syncColor(id, sh)
		}
	}
}

// track 把护盾放到飞船正上方，宽度跟随飞船并同步阶段颜色
func (s *ShieldSystem) track(id ecs.EntityID, sh *components.ShieldComponent) {
	if !s.entityManager.Exists(sh.Owner) {
		s.destroy(id, sh)
		return
	}
	ownerPos, ok1 := ecs.GetComponent[*components.PositionComponent](s.entityManager, sh.Owner)
	ownerBox, ok2 := ecs.GetComponent[*components.CollisionComponent](s.entityManager, sh.Owner)
	pos, ok3 := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	box, ok4 := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return
	}

	box.Width = ownerBox.Width
	pos.X = ownerPos.X
	pos.Y = ownerPos.Y - s.cfg.TrackGap - box.Height
	s.syncColor(id, sh)
}

func (s *ShieldSystem) destroy(id ecs.EntityID, sh *components.ShieldComponent) {
	sh.Destroyed = true
	s.entityManager.DestroyEntity(id)
	if s.bus != nil {
		event.Emit(s.bus, event.ShieldDamaged{Shield: id, Stage: sh.StageIndex, Destroyed: true})
	}
	s.log.Debug("shield destroyed", zap.Uint64("entity", uint64(id)))
}

func (s *ShieldSystem) syncColor(id ecs.EntityID, sh *components.ShieldComponent) {
	if sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id); ok {
		sprite.Color = s.cfg.StageColor(sh.StageIndex)
	}
}
