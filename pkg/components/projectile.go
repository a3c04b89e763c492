package components

import "github.com/decker502/invaders/pkg/ecs"

// ProjectileComponent 子弹
// 子弹上限按 Owner 统计，与子弹类型无关
type ProjectileComponent struct {
	Owner      ecs.EntityID // 发射者（只作计数标识，发射者删除后子弹继续飞行）
	FromPlayer bool
	Player     int // 玩家编号，FromPlayer 为 true 时有效
	Damage     int

	// LastShield 最近一次穿过并登记修复的护盾，同一护盾只登记一次
	LastShield ecs.EntityID
}
