package entities

import (
	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/timing"
)

// NewDeathAnimation 在被击毁实体的位置创建死亡动画
// 动画存活区间为 [now, now + N*frameMs)
func NewDeathAnimation(em *ecs.EntityManager, species string, sp *config.SpeciesConfig, x, y float64, now timing.Tick) ecs.EntityID {
	entityID := em.CreateEntity()

	frames := append([]string(nil), sp.DeathFrames...)
	timer := timing.NewFrameTimer(len(frames), sp.DeathFrameMs)
	timer.Start(now)

	first := ""
	if len(frames) > 0 {
		first = frames[0]
	}

	em.AddComponent(entityID, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(entityID, &components.CollisionComponent{Width: sp.Width, Height: sp.Height})
	em.AddComponent(entityID, &components.DeathAnimationComponent{
		Species: species,
		Frames:  frames,
		Timer:   timer,
	})
	em.AddComponent(entityID, &components.SpriteComponent{
		Frame: first,
		Color: config.NamedColor(sp.Color),
		Layer: components.LayerEffect,
	})
	return entityID
}
