package entities

import (
	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/timing"
)

// NewShield 创建护盾
// owner 为 ecs.InvalidEntity 时是固定掩体，否则追踪该飞船
func NewShield(em *ecs.EntityManager, cfg *config.ShieldConfig, owner ecs.EntityID, x, y float64, now timing.Tick) ecs.EntityID {
	entityID := em.CreateEntity()

	regen := timing.NewIntervalTimer(cfg.RegenDelayMs)
	regen.Start(now)

	em.AddComponent(entityID, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(entityID, &components.CollisionComponent{Width: cfg.Width, Height: cfg.Height})
	em.AddComponent(entityID, &components.ShieldComponent{
		StageIndex: 0,
		Owner:      owner,
		Regen:      regen,
	})
	em.AddComponent(entityID, &components.SpriteComponent{
		Color: cfg.StageColor(0),
		Layer: components.LayerShield,
	})
	return entityID
}
