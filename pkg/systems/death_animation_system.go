package systems

import (
	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/timing"
)

// DeathAnimationSystem 逐帧播放死亡动画，播放结束删除实体
// 动画存活区间为 [start, start + N*D)，与 tick 粒度无关
type DeathAnimationSystem struct {
	entityManager *ecs.EntityManager
}

// NewDeathAnimationSystem 创建死亡动画系统
func NewDeathAnimationSystem(em *ecs.EntityManager) *DeathAnimationSystem {
	return &DeathAnimationSystem{
		entityManager: em,
	}
}

// Phase 在碰撞之后执行，本 tick 新建的动画同 tick 显示第 0 帧
func (s *DeathAnimationSystem) Phase() Phase {
	return PhasePostUpdate
}

// Update 推进所有死亡动画
func (s *DeathAnimationSystem) Update(now timing.Tick) {
	entities := ecs.GetEntitiesWith1[*components.DeathAnimationComponent](s.entityManager)

	for _, id := range entities {
		anim, ok := ecs.GetComponent[*components.DeathAnimationComponent](s.entityManager, id)
		if !ok {
			continue
		}

		tr := anim.Timer.Advance(now)
		switch tr.Kind {
		case timing.TransitionComplete, timing.TransitionTick:
			// 播放完毕（无帧动画按单周期处理）
			s.entityManager.DestroyEntity(id)
		case timing.TransitionContinue:
			if sprite, ok := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id); ok && tr.Frame < len(anim.Frames) {
				sprite.Frame = anim.Frames[tr.Frame]
			}
		}
	}
}
