// Package event 提供游戏事件队列
//
// 系统在 tick 内通过 Emit 发布事件，Session 在输出阶段调用 Dispatch
// 一次性分发，保证同一 tick 的所有事件看到同一个 now。
package event

import "reflect"

// maxDispatchRounds 处理器在分发中再次发布事件时的最大轮数
const maxDispatchRounds = 8

// Bus 单线程事件队列，按发布顺序分发
type Bus struct {
	pending  []any
	handlers map[reflect.Type][]func(any)
}

// NewBus 创建事件队列
func NewBus() *Bus {
	return &Bus{
		pending:  make([]any, 0, 32),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit 将事件加入队列
func Emit[T any](b *Bus, ev T) {
	b.pending = append(b.pending, ev)
}

// Subscribe 为类型 T 的事件注册处理器
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) {
		fn(ev.(T))
	})
}

// Pending 返回尚未分发的事件数
func (b *Bus) Pending() int {
	return len(b.pending)
}

// Dispatch 按发布顺序分发所有事件
// 处理器中发布的新事件在同一次 Dispatch 中继续分发
func (b *Bus) Dispatch() int {
	delivered := 0
	for round := 0; round < maxDispatchRounds && len(b.pending) > 0; round++ {
		batch := b.pending
		b.pending = make([]any, 0, cap(batch))
		for _, ev := range batch {
			for _, h := range b.handlers[reflect.TypeOf(ev)] {
				h(ev)
			}
			delivered++
		}
	}
	return delivered
}

// Reset 丢弃所有未分发事件
func (b *Bus) Reset() {
	b.pending = b.pending[:0]
}
