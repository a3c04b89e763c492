package components

import (
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/timing"
)

// ShieldComponent 护盾状态
// 注意：遵循 ECS 原则，组件仅存储数据，状态转换由 ShieldSystem 完成
//
// 阶段索引 0 为最佳，K-1 为最差；再受伤越过 K-1 即摧毁。
type ShieldComponent struct {
	// StageIndex 当前阶段，始终位于 [0, K-1]
	StageIndex int

	// RechargeHits 玩家子弹修复计数，每满 RepairHitsPerLevel 次提升一级
	RechargeHits int

	// Destroyed 已摧毁（同 tick 内后续调用全部忽略）
	Destroyed bool

	// Owner 追踪的飞船，ecs.InvalidEntity 表示固定掩体
	Owner ecs.EntityID

	// Regen 被动再生计时器（非终止），StartTick 即最近一次受击时刻
	// 受击、治疗、再生一级都会重新 Start
	Regen timing.Timer
}
