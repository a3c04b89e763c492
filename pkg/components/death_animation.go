package components

import "github.com/decker502/invaders/pkg/timing"

// DeathAnimationComponent 死亡动画
// 帧数与每帧时长固定，不可重启；Timer 返回 Complete 时实体被删除
// 动画实体只记录创建时的位置，不持有被击毁实体的引用
type DeathAnimationComponent struct {
	Species string
	Frames  []string
	Timer   timing.Timer // 终止型帧计时器：FrameCount = len(Frames)
}
