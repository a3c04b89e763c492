package entities

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/timing"
)

func newTestSpeciesTable() *config.SpeciesTable {
	return &config.SpeciesTable{
		Species: map[string]*config.SpeciesConfig{
			config.SpeciesLevel1: {
				Width: 20, Height: 10, HitPoints: 1, Color: "lime",
				DeathFrames: []string{"a", "b", "c"}, DeathFrameMs: 100,
				Fire: map[int]config.FireProfile{1: {MaxBullets: 1, MinIntervalMs: 1000, MaxIntervalMs: 2000, BulletSpeed: 200}},
			},
			config.SpeciesLevel3: {
				Width: 30, Height: 20, HitPoints: 2, Speed: 100,
				DeathFrames: []string{"x"}, DeathFrameMs: 50,
			},
			config.SpeciesPlayer: {
				Width: 36, Height: 18, HitPoints: 3, Speed: 250,
				Fire: map[int]config.FireProfile{1: {MaxBullets: 1, MinIntervalMs: 250, MaxIntervalMs: 250, BulletSpeed: 480}},
			},
		},
		Swarm: config.SwarmConfig{AliensPerRow: 4, ColumnSpacing: 30},
	}
}

func TestNewAlienResolvesFireProfile(t *testing.T) {
	em := ecs.NewEntityManager()
	table := newTestSpeciesTable()
	rng := rand.New(rand.NewSource(1))

	id, err := NewAlien(em, table, AlienSpec{Species: config.SpeciesLevel1, Level: 1, X: 10, Y: 20, Row: 0, InSwarm: true}, 500, rng)
	if err != nil {
		t.Fatalf("NewAlien failed: %v", err)
	}

	gate, ok := ecs.GetComponent[*components.FireGateComponent](em, id)
	if !ok {
		t.Fatal("firing species should have a fire gate")
	}
	if gate.Profile.MaxBullets != 1 || gate.Direction != 1 {
		t.Errorf("unexpected gate: %+v", gate)
	}
	// 首次开火时刻落在 [now+min, now+max]
	if gate.NextFireTick < 1500 || gate.NextFireTick > 2500 {
		t.Errorf("NextFireTick %d outside [1500, 2500]", gate.NextFireTick)
	}
	if ecs.HasComponent[*components.VelocityComponent](em, id) {
		t.Error("swarm members should not carry their own velocity")
	}
	hostile, _ := ecs.GetComponent[*components.HostileComponent](em, id)
	if hostile.Species != config.SpeciesLevel1 || !hostile.InSwarm {
		t.Errorf("unexpected hostile component: %+v", hostile)
	}
}

func TestNewAlienNonFiringSpecies(t *testing.T) {
	em := ecs.NewEntityManager()
	table := newTestSpeciesTable()

	id, err := NewAlien(em, table, AlienSpec{Species: config.SpeciesLevel3, Level: 7, Direction: -1, Row: -1}, 0, nil)
	if err != nil {
		t.Fatalf("non-firing species should ignore level, got %v", err)
	}
	if ecs.HasComponent[*components.FireGateComponent](em, id) {
		t.Error("non-firing species should not get a fire gate")
	}
	vel, ok := ecs.GetComponent[*components.VelocityComponent](em, id)
	if !ok || vel.VX != -100 {
		t.Errorf("expected VX=-100, got %+v", vel)
	}
	health, _ := ecs.GetComponent[*components.HealthComponent](em, id)
	if health.CurrentHealth != 2 {
		t.Errorf("expected 2 hit points, got %d", health.CurrentHealth)
	}
}

func TestNewAlienConfigurationErrors(t *testing.T) {
	em := ecs.NewEntityManager()
	table := newTestSpeciesTable()

	if _, err := NewAlien(em, table, AlienSpec{Species: "ufo", Level: 1}, 0, nil); !errors.Is(err, config.ErrUnknownSpecies) {
		t.Errorf("expected ErrUnknownSpecies, got %v", err)
	}
	if _, err := NewAlien(em, table, AlienSpec{Species: config.SpeciesLevel1, Level: 2}, 0, nil); !errors.Is(err, config.ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
	if em.Count() != 0 {
		t.Errorf("failed creation should not leave entities, got %d", em.Count())
	}
}

func TestNewAlienRow(t *testing.T) {
	em := ecs.NewEntityManager()
	table := newTestSpeciesTable()

	ids, err := NewAlienRow(em, table, 3, 1, 40, 200, 0, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("NewAlienRow failed: %v", err)
	}
	if len(ids) != 4 {
		t.Fatalf("expected 4 aliens, got %d", len(ids))
	}

	// 行宽 = 3*30 + 20 = 110，居中后起点 45
	first, _ := ecs.GetComponent[*components.PositionComponent](em, ids[0])
	last, _ := ecs.GetComponent[*components.PositionComponent](em, ids[3])
	if first.X != 45 || last.X != 135 {
		t.Errorf("expected row from x=45 to x=135, got %v..%v", first.X, last.X)
	}
	for _, id := range ids {
		h, _ := ecs.GetComponent[*components.HostileComponent](em, id)
		if h.Row != 3 {
			t.Errorf("entity %d: expected row 3, got %d", id, h.Row)
		}
	}
}

func TestNewPlayerShip(t *testing.T) {
	em := ecs.NewEntityManager()
	table := newTestSpeciesTable()

	id, err := NewPlayerShip(em, table, 1, 1, 100, 500)
	if err != nil {
		t.Fatalf("NewPlayerShip failed: %v", err)
	}
	ship, _ := ecs.GetComponent[*components.PlayerShipComponent](em, id)
	if ship.Index != 1 || ship.Speed != 250 {
		t.Errorf("unexpected ship: %+v", ship)
	}
	gate, _ := ecs.GetComponent[*components.FireGateComponent](em, id)
	if gate.Direction != -1 || gate.NextFireTick != 0 {
		t.Errorf("player gate should point up and be ready, got %+v", gate)
	}

	if _, err := NewPlayerShip(em, table, 0, 4, 0, 0); !errors.Is(err, config.ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel for weapon level 4, got %v", err)
	}
}

func TestNewShieldAndDeathAnimation(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := &config.ShieldConfig{Stages: 2, Width: 50, Height: 6, RegenDelayMs: 1000}

	shieldID := NewShield(em, cfg, ecs.InvalidEntity, 10, 20, 300)
	shield, ok := ecs.GetComponent[*components.ShieldComponent](em, shieldID)
	if !ok {
		t.Fatal("shield component missing")
	}
	if shield.Owner != ecs.InvalidEntity || shield.StageIndex != 0 {
		t.Errorf("unexpected shield: %+v", shield)
	}
	if shield.Regen.StartTick != 300 || shield.Regen.PeriodMs != 1000 {
		t.Errorf("regen timer not started at creation: %+v", shield.Regen)
	}

	sp := newTestSpeciesTable().Species[config.SpeciesLevel1]
	animID := NewDeathAnimation(em, config.SpeciesLevel1, sp, 5, 6, timing.Tick(1000))
	anim, _ := ecs.GetComponent[*components.DeathAnimationComponent](em, animID)
	if anim.Timer.FrameCount != 3 || anim.Timer.PeriodMs != 100 || anim.Timer.StartTick != 1000 {
		t.Errorf("unexpected death timer: %+v", anim.Timer)
	}
	sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, animID)
	if sprite.Frame != "a" {
		t.Errorf("expected first frame a, got %q", sprite.Frame)
	}
}

func TestNewProjectile(t *testing.T) {
	em := ecs.NewEntityManager()
	id := NewProjectile(em, ProjectileSpec{Owner: 7, FromPlayer: true, Player: 1, CenterX: 50, Y: 100, VY: -400})

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if pos.X != 50-ProjectileWidth/2 {
		t.Errorf("projectile should be centered on the muzzle, got x=%v", pos.X)
	}
	proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
	if proj.Owner != 7 || !proj.FromPlayer || proj.Player != 1 {
		t.Errorf("unexpected projectile: %+v", proj)
	}
}
