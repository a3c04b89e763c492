package components

import "image/color"

// 绘制层级，数值小的先绘制
const (
	LayerShield = iota
	LayerHostile
	LayerPlayer
	LayerProjectile
	LayerEffect
)

// SpriteComponent 存储实体的视觉表现
// 核心逻辑只维护帧名与颜色，具体的图像由渲染适配器解析
type SpriteComponent struct {
	Frame string     // 当前帧引用（资源键），为空时按颜色绘制矩形
	Color color.RGBA // 占位颜色
	Layer int
}
