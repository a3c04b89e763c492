package components

// CollisionComponent 定义实体的轴对齐碰撞盒
// 碰撞盒左上角与 PositionComponent 重合
type CollisionComponent struct {
	Width  float64 // 碰撞盒宽度（像素）
	Height float64 // 碰撞盒高度（像素）
}
