package components

// PositionComponent 实体左上角坐标（像素）
type PositionComponent struct {
	X float64
	Y float64
}

// VelocityComponent 实体速度（像素/秒）
type VelocityComponent struct {
	VX float64
	VY float64
}
