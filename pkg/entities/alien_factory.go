package entities

import (
	"fmt"
	"math/rand"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/timing"
)

// AlienSpec 创建外星人所需的参数
type AlienSpec struct {
	Species   string
	Level     int     // 波次等级，选择开火档位
	X, Y      float64 // 左上角
	Direction float64 // 水平方向 +1 / -1，蜂群成员忽略
	Row       int     // 蜂群行号，非蜂群传 -1
	InSwarm   bool
}

// NewAlien 创建外星人实体
//
// 开火档位在这里一次性解析：未知物种或等级返回配置错误。
// 正常流程中内容已在启动时验证，此处不会失败。
//
// 首次开火时刻为 now + 随机间隔，避免整行同时开火。
func NewAlien(em *ecs.EntityManager, table *config.SpeciesTable, spec AlienSpec, now timing.Tick, rng *rand.Rand) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	sp, err := table.Lookup(spec.Species)
	if err != nil {
		return 0, err
	}

	var gate *components.FireGateComponent
	if len(sp.Fire) > 0 {
		fp, err := table.FireProfileFor(spec.Species, spec.Level)
		if err != nil {
			return 0, err
		}
		gate = &components.FireGateComponent{
			Species:      spec.Species,
			Level:        spec.Level,
			Profile:      fp,
			NextFireTick: now + timing.Tick(timing.DrawInterval(rng, fp.MinIntervalMs, fp.MaxIntervalMs)),
			Direction:    1,
		}
	}

	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.PositionComponent{X: spec.X, Y: spec.Y})
	em.AddComponent(entityID, &components.CollisionComponent{Width: sp.Width, Height: sp.Height})
	em.AddComponent(entityID, &components.HealthComponent{CurrentHealth: sp.HitPoints, MaxHealth: sp.HitPoints})
	em.AddComponent(entityID, &components.HostileComponent{
		Species: spec.Species,
		Score:   sp.Score,
		Row:     spec.Row,
		InSwarm: spec.InSwarm,
	})
	em.AddComponent(entityID, &components.SpriteComponent{
		Frame: spec.Species,
		Color: config.NamedColor(sp.Color),
		Layer: components.LayerHostile,
	})

	// 蜂群成员由舰队统一移动，不带速度组件
	if !spec.InSwarm && sp.Speed > 0 {
		dir := spec.Direction
		if dir == 0 {
			dir = 1
		}
		em.AddComponent(entityID, &components.VelocityComponent{VX: sp.Speed * dir})
	}

	if gate != nil {
		em.AddComponent(entityID, gate)
	}

	return entityID, nil
}

// NewAlienRow 创建一整行蜂群
// 行在屏幕内水平居中，y 为行顶部坐标
func NewAlienRow(em *ecs.EntityManager, table *config.SpeciesTable, row, level int, y, screenWidth float64, now timing.Tick, rng *rand.Rand) ([]ecs.EntityID, error) {
	sp, err := table.Lookup(config.SpeciesLevel1)
	if err != nil {
		return nil, err
	}
	swarm := table.Swarm

	rowWidth := float64(swarm.AliensPerRow-1)*swarm.ColumnSpacing + sp.Width
	startX := (screenWidth - rowWidth) / 2

	ids := make([]ecs.EntityID, 0, swarm.AliensPerRow)
	for i := 0; i < swarm.AliensPerRow; i++ {
		id, err := NewAlien(em, table, AlienSpec{
			Species: config.SpeciesLevel1,
			Level:   level,
			X:       startX + float64(i)*swarm.ColumnSpacing,
			Y:       y,
			Row:     row,
			InSwarm: true,
		}, now, rng)
		if err != nil {
			for _, created := range ids {
				em.DestroyEntity(created)
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
