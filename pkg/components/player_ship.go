package components

// PlayerShipComponent 玩家飞船
type PlayerShipComponent struct {
	Index int     // 玩家编号 0..N-1
	Speed float64 // 水平速度（像素/秒）
}
