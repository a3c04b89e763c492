package systems

import (
	"testing"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/entities"
	"github.com/decker502/invaders/pkg/timing"
)

// TestDeathAnimationLifetime 3 帧 × 100ms：存活区间 [1000, 1300)
func TestDeathAnimationLifetime(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewDeathAnimationSystem(em)
	species := newTestSpecies()
	sp, _ := species.Lookup(config.SpeciesLevel2)

	id := entities.NewDeathAnimation(em, config.SpeciesLevel2, sp, 10, 20, 1000)

	steps := []struct {
		now       timing.Tick
		wantAlive bool
		wantFrame string
	}{
		{1000, true, "f0"},
		{1099, true, "f0"},
		{1100, true, "f1"},
		{1250, true, "f2"},
		{1299, true, "f2"},
		{1300, false, ""},
	}
	for _, step := range steps {
		sys.Update(step.now)
		if em.Exists(id) != step.wantAlive {
			t.Fatalf("at %d: alive = %v, want %v", step.now, em.Exists(id), step.wantAlive)
		}
		if !step.wantAlive {
			continue
		}
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
		if sprite.Frame != step.wantFrame {
			t.Errorf("at %d: frame = %q, want %q", step.now, sprite.Frame, step.wantFrame)
		}
	}
}

// TestDeathAnimationCoarseTick 粗粒度 tick 直接越过末帧也能结束
func TestDeathAnimationCoarseTick(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewDeathAnimationSystem(em)
	species := newTestSpecies()
	sp, _ := species.Lookup(config.SpeciesLevel1)

	id := entities.NewDeathAnimation(em, config.SpeciesLevel1, sp, 0, 0, 0)
	sys.Update(5000)
	if em.Exists(id) {
		t.Error("animation should end when a tick jumps past the last frame")
	}
}

// TestDeathAnimationWithoutFrames 无帧物种按单周期处理
func TestDeathAnimationWithoutFrames(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewDeathAnimationSystem(em)
	sp := &config.SpeciesConfig{Width: 10, Height: 10, DeathFrameMs: 200}

	id := entities.NewDeathAnimation(em, config.SpeciesPlayer, sp, 0, 0, 0)
	sys.Update(199)
	if !em.Exists(id) {
		t.Fatal("animation should still be alive before its period")
	}
	sys.Update(200)
	if em.Exists(id) {
		t.Error("animation should end after one period")
	}
}
