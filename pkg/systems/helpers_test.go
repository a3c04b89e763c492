package systems

import (
	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/event"
)

// newTestSpecies 构造测试用物种表（所有敌方物种齐全）
func newTestSpecies() *config.SpeciesTable {
	frames := []string{"f0", "f1", "f2"}
	return &config.SpeciesTable{
		Species: map[string]*config.SpeciesConfig{
			config.SpeciesLevel1: {
				Width: 20, Height: 10, HitPoints: 1, Score: 10,
				DeathFrames: frames, DeathFrameMs: 100,
				Fire: map[int]config.FireProfile{1: {MaxBullets: 1, MinIntervalMs: 5000, MaxIntervalMs: 9000, BulletSpeed: 200}},
			},
			config.SpeciesLevel2: {
				Width: 24, Height: 12, HitPoints: 1, Speed: 60, Score: 20,
				DeathFrames: frames, DeathFrameMs: 100,
				Spawn: config.SpawnTiming{MinIntervalMs: 1000, MaxIntervalMs: 1000},
			},
			config.SpeciesLevel3: {
				Width: 24, Height: 12, HitPoints: 2, Speed: 80, Score: 30,
				DeathFrames: frames, DeathFrameMs: 100,
				Spawn: config.SpawnTiming{MinIntervalMs: 500, MaxIntervalMs: 1500},
			},
			config.SpeciesLevel4: {
				Width: 24, Height: 12, HitPoints: 3, Speed: 100, Score: 40,
				DeathFrames: frames, DeathFrameMs: 100,
				Spawn: config.SpawnTiming{MinIntervalMs: 500, MaxIntervalMs: 1500},
			},
			config.SpeciesBombarder: {
				Width: 30, Height: 14, HitPoints: 2, Speed: 50, Score: 50,
				DeathFrames: frames, DeathFrameMs: 100,
				Spawn: config.SpawnTiming{MinIntervalMs: 800, MaxIntervalMs: 800, ActivationDelayMs: 2000},
			},
			config.SpeciesBoss: {
				Width: 80, Height: 30, HitPoints: 10, Speed: 40, Score: 500,
				DeathFrames: frames, DeathFrameMs: 100,
				Spawn: config.SpawnTiming{ActivationDelayMs: 1000},
			},
			config.SpeciesPlayer: {
				Width: 36, Height: 18, HitPoints: 1, Speed: 200,
				Fire: map[int]config.FireProfile{1: {MaxBullets: 1, MinIntervalMs: 250, MaxIntervalMs: 250, BulletSpeed: 480}},
			},
		},
		Swarm: config.SwarmConfig{
			AliensPerRow:           4,
			MaxVisibleRows:         3,
			ReinforcementThreshold: 1,
			RowDelayMs:             600,
			StartingRows:           3,
			RowSpacing:             20,
			ColumnSpacing:          30,
			TopMargin:              40,
			AdvanceSpeed:           100,
			StepDown:               10,
		},
	}
}

// newTestShieldConfig 8 级护盾
func newTestShieldConfig() *config.ShieldConfig {
	return &config.ShieldConfig{
		Stages:             8,
		RegenDelayMs:       4000,
		RegenCapIndex:      3,
		RepairHitsPerLevel: 3,
		RepairCapIndex:     2,
		WaveClearHeal:      2,
		Width:              64,
		Height:             8,
		TrackGap:           6,
	}
}

// recorder 记录事件总线上分发的事件
type recorder struct {
	shots    []event.ShotFired
	killed   []event.HostileKilled
	hits     []event.ProjectileHit
	damaged  []event.ShieldDamaged
	repaired []event.ShieldRepaired
	healed   []event.ShieldHealed
	players  []event.PlayerHit
	bosses   []event.BossAppeared
	started  []event.WaveStarted
	cleared  []event.WaveCleared
	finished []event.GameFinished
}

func newRecorder(bus *event.Bus) *recorder {
	r := &recorder{}
	event.Subscribe(bus, func(ev event.ShotFired) { r.shots = append(r.shots, ev) })
	event.Subscribe(bus, func(ev event.HostileKilled) { r.killed = append(r.killed, ev) })
	event.Subscribe(bus, func(ev event.ProjectileHit) { r.hits = append(r.hits, ev) })
	event.Subscribe(bus, func(ev event.ShieldDamaged) { r.damaged = append(r.damaged, ev) })
	event.Subscribe(bus, func(ev event.ShieldRepaired) { r.repaired = append(r.repaired, ev) })
	event.Subscribe(bus, func(ev event.ShieldHealed) { r.healed = append(r.healed, ev) })
	event.Subscribe(bus, func(ev event.PlayerHit) { r.players = append(r.players, ev) })
	event.Subscribe(bus, func(ev event.BossAppeared) { r.bosses = append(r.bosses, ev) })
	event.Subscribe(bus, func(ev event.WaveStarted) { r.started = append(r.started, ev) })
	event.Subscribe(bus, func(ev event.WaveCleared) { r.cleared = append(r.cleared, ev) })
	event.Subscribe(bus, func(ev event.GameFinished) { r.finished = append(r.finished, ev) })
	return r
}

// countHostiles 按物种统计存活敌人
func countHostiles(em *ecs.EntityManager, species string) int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.HostileComponent](em) {
		h, _ := ecs.GetComponent[*components.HostileComponent](em, id)
		if h.Species == species {
			n++
		}
	}
	return n
}

// killAll 删除所有敌人
func killAll(em *ecs.EntityManager) {
	for _, id := range ecs.GetEntitiesWith1[*components.HostileComponent](em) {
		em.DestroyEntity(id)
	}
	em.RemoveMarkedEntities()
}

// addBody 创建只有位置与碰撞盒的实体
func addBody(em *ecs.EntityManager, x, y, w, h float64) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(id, &components.CollisionComponent{Width: w, Height: h})
	return id
}
