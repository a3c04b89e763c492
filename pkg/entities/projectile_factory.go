package entities

import (
	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/ecs"
	"golang.org/x/image/colornames"
)

// 子弹尺寸（像素）
const (
	ProjectileWidth  = 3.0
	ProjectileHeight = 10.0
)

// ProjectileSpec 子弹参数
type ProjectileSpec struct {
	Owner      ecs.EntityID
	FromPlayer bool
	Player     int
	CenterX    float64 // 发射点水平中心
	Y          float64 // 发射点纵坐标
	VY         float64 // 纵向速度，带方向
}

// NewProjectile 创建子弹实体
func NewProjectile(em *ecs.EntityManager, spec ProjectileSpec) ecs.EntityID {
	entityID := em.CreateEntity()

	c := colornames.Orangered
	if spec.FromPlayer {
		c = colornames.Aqua
	}

	em.AddComponent(entityID, &components.PositionComponent{
		X: spec.CenterX - ProjectileWidth/2,
		Y: spec.Y,
	})
	em.AddComponent(entityID, &components.VelocityComponent{VY: spec.VY})
	em.AddComponent(entityID, &components.CollisionComponent{Width: ProjectileWidth, Height: ProjectileHeight})
	em.AddComponent(entityID, &components.ProjectileComponent{
		Owner:      spec.Owner,
		FromPlayer: spec.FromPlayer,
		Player:     spec.Player,
		Damage:     1,
	})
	em.AddComponent(entityID, &components.SpriteComponent{
		Color: c,
		Layer: components.LayerProjectile,
	})
	return entityID
}
