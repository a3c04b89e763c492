package event

import "testing"

type testPing struct{ N int }
type testPong struct{ N int }

func TestBus_DispatchInOrder(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(e testPing) { got = append(got, e.N) })

	Emit(b, testPing{N: 1})
	Emit(b, testPong{N: 99}) // 无处理器也会被消费
	Emit(b, testPing{N: 2})

	if n := b.Dispatch(); n != 3 {
		t.Errorf("Expected 3 delivered events, got %d", n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected [1 2], got %v", got)
	}
	if b.Pending() != 0 {
		t.Errorf("Expected empty queue, got %d", b.Pending())
	}
}

func TestBus_HandlerEmitsDuringDispatch(t *testing.T) {
	b := NewBus()
	pongs := 0
	Subscribe(b, func(e testPing) { Emit(b, testPong{N: e.N}) })
	Subscribe(b, func(e testPong) { pongs++ })

	Emit(b, testPing{N: 1})
	b.Dispatch()

	if pongs != 1 {
		t.Errorf("Expected chained event delivered in same dispatch, got %d", pongs)
	}
}

func TestBus_RunawayChainIsBounded(t *testing.T) {
	b := NewBus()
	Subscribe(b, func(e testPing) { Emit(b, testPing{N: e.N + 1}) })

	Emit(b, testPing{})
	if n := b.Dispatch(); n != maxDispatchRounds {
		t.Errorf("Expected %d deliveries, got %d", maxDispatchRounds, n)
	}
	b.Reset()
	if b.Pending() != 0 {
		t.Error("Reset should drop pending events")
	}
}
