// Package input 将按键事件转换为离散指令
//
// 移动指令是电平式的（按下置位、松开清除），开火与确认是边沿式脉冲，
// 每次按下只被消费一次。
package input

import "fmt"

// CommandKind 指令类型
type CommandKind int

const (
	MoveLeftStart CommandKind = iota
	MoveLeftStop
	MoveRightStart
	MoveRightStop
	Fire
	Confirm
)

func (k CommandKind) String() string {
	switch k {
	case MoveLeftStart:
		return "move_left_start"
	case MoveLeftStop:
		return "move_left_stop"
	case MoveRightStart:
		return "move_right_start"
	case MoveRightStop:
		return "move_right_stop"
	case Fire:
		return "fire"
	case Confirm:
		return "confirm"
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command 发往某个玩家的指令
type Command struct {
	Player int
	Kind   CommandKind
}
