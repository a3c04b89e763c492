package event

import "github.com/decker502/invaders/pkg/ecs"

// ShotFired 任意射击成功
type ShotFired struct {
	Shooter ecs.EntityID
	Species string // "player" 或外星人种类
	Player  bool
}

// HostileKilled 敌人被击毁
type HostileKilled struct {
	Entity  ecs.EntityID
	Species string
	Score   int
	Player  int // 击毁者编号
	X, Y    float64
}

// ProjectileHit 子弹命中但未击毁目标
type ProjectileHit struct {
	Target ecs.EntityID
}

// ShieldDamaged 护盾受损（Destroyed 表示本次伤害摧毁了护盾）
type ShieldDamaged struct {
	Shield    ecs.EntityID
	Stage     int
	Destroyed bool
}

// ShieldRepaired 护盾被玩家子弹修复升一级
type ShieldRepaired struct {
	Shield ecs.EntityID
	Stage  int
}

// ShieldHealed 护盾被治疗（波次间奖励）
type ShieldHealed struct {
	Shield ecs.EntityID
	Stage  int
}

// PlayerHit 玩家飞船被击中（Destroyed 表示飞船被击毁）
type PlayerHit struct {
	Player    int
	Ship      ecs.EntityID
	Destroyed bool
}

// BossAppeared 最终Boss出场
type BossAppeared struct {
	Entity ecs.EntityID
}

// WaveStarted 波次开始
type WaveStarted struct {
	Wave int
}

// WaveCleared 波次清空，进入波次间隔
type WaveCleared struct {
	Wave int
}

// GameFinished 最后一波清空
type GameFinished struct {
	Waves int
}
