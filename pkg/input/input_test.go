package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/invaders/pkg/config"
)

func TestMoveFlagsAreLevelSet(t *testing.T) {
	p := PlayerState{}

	p.Apply(MoveLeftStart)
	p.Apply(MoveLeftStart)
	if p.Direction() != -1 {
		t.Errorf("expected -1, got %v", p.Direction())
	}

	p.Apply(MoveRightStart)
	if p.Direction() != 0 {
		t.Errorf("left+right should cancel, got %v", p.Direction())
	}

	p.Apply(MoveLeftStop)
	if p.Direction() != 1 {
		t.Errorf("expected 1, got %v", p.Direction())
	}

	p.Apply(MoveRightStop)
	p.Apply(MoveRightStop)
	if p.Direction() != 0 {
		t.Errorf("expected 0 after releasing both, got %v", p.Direction())
	}
}

func TestFireIsEdgeTriggered(t *testing.T) {
	p := PlayerState{}

	if p.ConsumeFire() {
		t.Error("no fire pulse expected initially")
	}

	// 两次按下在消费前合并为一次
	p.Apply(Fire)
	p.Apply(Fire)
	if !p.ConsumeFire() {
		t.Error("expected a fire pulse")
	}
	if p.ConsumeFire() {
		t.Error("fire pulse should be consumed once")
	}

	p.Apply(Confirm)
	if !p.ConsumeConfirm() || p.ConsumeConfirm() {
		t.Error("confirm pulse should be consumed exactly once")
	}
}

func TestReset(t *testing.T) {
	p := PlayerState{}
	p.Apply(MoveLeftStart)
	p.Apply(Fire)
	p.Reset()
	if p.Direction() != 0 || p.ConsumeFire() {
		t.Error("Reset should clear all flags")
	}
}

func TestParseBindings(t *testing.T) {
	bindings, err := ParseBindings([]config.PlayerBindings{
		{Left: "ArrowLeft", Right: "ArrowRight", Fire: "Space", Confirm: "Enter"},
		{Left: "A", Right: "D", Fire: "W"},
	})
	if err != nil {
		t.Fatalf("ParseBindings failed: %v", err)
	}
	if bindings[0].Left != ebiten.KeyArrowLeft || bindings[0].Fire != ebiten.KeySpace {
		t.Errorf("unexpected bindings: %+v", bindings[0])
	}
	if !bindings[0].HasConfirm || bindings[0].Confirm != ebiten.KeyEnter {
		t.Errorf("expected Enter confirm, got %+v", bindings[0])
	}
	if bindings[1].HasConfirm {
		t.Error("player 2 has no confirm binding")
	}

	players := NewPlayers(bindings)
	if len(players) != 2 || players[1].Index != 1 || players[1].Bindings.Right != ebiten.KeyD {
		t.Errorf("unexpected players: %+v", players)
	}
}

func TestParseBindingsUnknownKey(t *testing.T) {
	_, err := ParseBindings([]config.PlayerBindings{{Left: "Left?", Right: "D", Fire: "W"}})
	if err == nil {
		t.Error("expected error for unknown key name")
	}
}

func TestCommandKindString(t *testing.T) {
	if MoveLeftStart.String() != "move_left_start" || Confirm.String() != "confirm" {
		t.Error("unexpected command names")
	}
}
