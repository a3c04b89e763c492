package input

import "github.com/decker502/invaders/pkg/ecs"

// PlayerState 单个玩家的输入与归属状态
// 玩家以固定大小的切片按下标 0..N-1 保存
type PlayerState struct {
	Index    int
	Bindings KeyBindings
	Ship     ecs.EntityID // 当前飞船，被击毁后为 ecs.InvalidEntity
	Score    int

	moveLeft       bool
	moveRight      bool
	firePending    bool
	confirmPending bool
}

// NewPlayers 按绑定数量创建玩家状态
func NewPlayers(bindings []KeyBindings) []PlayerState {
	players := make([]PlayerState, len(bindings))
	for i, b := range bindings {
		players[i] = PlayerState{Index: i, Bindings: b}
	}
	return players
}

// Apply 应用一条指令
// 移动指令重复发送结果不变；开火与确认在被消费前只记一次
func (p *PlayerState) Apply(kind CommandKind) {
	switch kind {
	case MoveLeftStart:
		p.moveLeft = true
	case MoveLeftStop:
		p.moveLeft = false
	case MoveRightStart:
		p.moveRight = true
	case MoveRightStop:
		p.moveRight = false
	case Fire:
		p.firePending = true
	case Confirm:
		p.confirmPending = true
	}
}

// Direction 水平移动方向：-1 左、+1 右、0 静止（同时按下互相抵消）
func (p *PlayerState) Direction() float64 {
	dir := 0.0
	if p.moveLeft {
		dir--
	}
	if p.moveRight {
		dir++
	}
	return dir
}

// ConsumeFire 取出开火脉冲
func (p *PlayerState) ConsumeFire() bool {
	pending := p.firePending
	p.firePending = false
	return pending
}

// ConsumeConfirm 取出确认脉冲
func (p *PlayerState) ConsumeConfirm() bool {
	pending := p.confirmPending
	p.confirmPending = false
	return pending
}

// Reset 清除所有输入状态（飞船被击毁或会话结束时）
func (p *PlayerState) Reset() {
	p.moveLeft = false
	p.moveRight = false
	p.firePending = false
	p.confirmPending = false
}
