package entities

import (
	"fmt"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
)

// NewPlayerShip 创建玩家飞船
// weaponLevel 选择 player 物种的开火档位；首发子弹立即可用
func NewPlayerShip(em *ecs.EntityManager, table *config.SpeciesTable, index, weaponLevel int, x, y float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	sp, err := table.Lookup(config.SpeciesPlayer)
	if err != nil {
		return 0, err
	}
	fp, err := table.FireProfileFor(config.SpeciesPlayer, weaponLevel)
	if err != nil {
		return 0, err
	}

	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(entityID, &components.VelocityComponent{})
	em.AddComponent(entityID, &components.CollisionComponent{Width: sp.Width, Height: sp.Height})
	em.AddComponent(entityID, &components.HealthComponent{CurrentHealth: sp.HitPoints, MaxHealth: sp.HitPoints})
	em.AddComponent(entityID, &components.PlayerShipComponent{Index: index, Speed: sp.Speed})
	em.AddComponent(entityID, &components.SpriteComponent{
		Frame: fmt.Sprintf("player_%d", index+1),
		Color: config.NamedColor(playerColors[index%len(playerColors)]),
		Layer: components.LayerPlayer,
	})
	em.AddComponent(entityID, &components.FireGateComponent{
		Species:   config.SpeciesPlayer,
		Level:     weaponLevel,
		Profile:   fp,
		Direction: -1,
	})

	return entityID, nil
}

var playerColors = []string{"white", "cyan", "yellow", "hotpink"}
