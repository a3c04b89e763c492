package systems

import (
	"reflect"
	"testing"

	"github.com/decker502/invaders/pkg/timing"
)

type traceSystem struct {
	name  string
	phase Phase
	trace *[]string
	ticks []timing.Tick
}

func (s *traceSystem) Phase() Phase { return s.phase }

func (s *traceSystem) Update(now timing.Tick) {
	*s.trace = append(*s.trace, s.name)
	s.ticks = append(s.ticks, now)
}

// TestRunnerPhaseOrder 按阶段执行，同阶段保持注册顺序
func TestRunnerPhaseOrder(t *testing.T) {
	var trace []string
	r := NewRunner()
	output := &traceSystem{name: "output", phase: PhaseOutput, trace: &trace}
	r.Register(output)
	r.Register(&traceSystem{name: "collision", phase: PhaseCollision, trace: &trace})
	r.Register(&traceSystem{name: "wave", phase: PhaseSpawn, trace: &trace})
	r.Register(&traceSystem{name: "spawn", phase: PhaseSpawn, trace: &trace})
	r.Register(&traceSystem{name: "input", phase: PhaseInput, trace: &trace})

	if r.Len() != 5 {
		t.Fatalf("expected 5 systems, got %d", r.Len())
	}

	r.Tick(42)
	want := []string{"input", "wave", "spawn", "collision", "output"}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("order = %v, want %v", trace, want)
	}
	if len(output.ticks) != 1 || output.ticks[0] != 42 {
		t.Errorf("all systems should see the same now, got %v", output.ticks)
	}
}

// TestRunnerTickPhase 只执行指定阶段
func TestRunnerTickPhase(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&traceSystem{name: "a", phase: PhaseUpdate, trace: &trace})
	r.Register(&traceSystem{name: "b", phase: PhaseOutput, trace: &trace})
	r.Register(&traceSystem{name: "c", phase: PhaseUpdate, trace: &trace})

	r.TickPhase(PhaseUpdate, 0)
	if !reflect.DeepEqual(trace, []string{"a", "c"}) {
		t.Errorf("unexpected trace %v", trace)
	}
}
