package game

import (
	"image/color"
	"sort"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/ecs"
)

// RenderItem 一个待绘制的矩形
// Frame 为占位帧名，渲染端可以用它查找图片
type RenderItem struct {
	X, Y          float64
	Width, Height float64
	Color         color.RGBA
	Frame         string
	Layer         int
}

// Renderer 渲染适配器
type Renderer interface {
	DrawItem(item RenderItem)
}

// collectRenderItems 按图层、实体 ID 排序收集所有可见实体
func collectRenderItems(em *ecs.EntityManager) []RenderItem {
	ids := ecs.GetEntitiesWith3[*components.PositionComponent, *components.CollisionComponent, *components.SpriteComponent](em)
	items := make([]RenderItem, 0, len(ids))
	for _, id := range ids {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		box, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
		items = append(items, RenderItem{
			X:      pos.X,
			Y:      pos.Y,
			Width:  box.Width,
			Height: box.Height,
			Color:  sprite.Color,
			Frame:  sprite.Frame,
			Layer:  sprite.Layer,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Layer < items[j].Layer
	})
	return items
}
