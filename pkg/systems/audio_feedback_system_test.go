package systems

import (
	"reflect"
	"testing"

	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/event"
)

// fakeSounds 记录调用
type fakeSounds struct {
	known map[string]bool
	calls []string
}

func (f *fakeSounds) HasSound(key string) bool { return f.known[key] }

func (f *fakeSounds) Trigger(key string) bool {
	f.calls = append(f.calls, "play:"+key)
	return true
}

func (f *fakeSounds) StartLoop(key string) bool {
	f.calls = append(f.calls, "loop:"+key)
	return true
}

func (f *fakeSounds) StopNamed(name string) bool {
	f.calls = append(f.calls, "stop:"+name)
	return true
}

func TestAudioFeedbackMapping(t *testing.T) {
	tests := []struct {
		name string
		emit func(bus *event.Bus)
		want []string
	}{
		{"player shot", func(b *event.Bus) { event.Emit(b, event.ShotFired{Player: true, Species: config.SpeciesPlayer}) }, []string{"play:player_shot"}},
		{"bombarder shot", func(b *event.Bus) { event.Emit(b, event.ShotFired{Species: config.SpeciesBombarder}) }, []string{"play:bombarder_fire"}},
		{"alien shot", func(b *event.Bus) { event.Emit(b, event.ShotFired{Species: config.SpeciesLevel2}) }, []string{"play:alien_fire"}},
		{"species death", func(b *event.Bus) { event.Emit(b, event.HostileKilled{Species: config.SpeciesLevel1}) }, []string{"play:death_level1"}},
		{"fallback death", func(b *event.Bus) { event.Emit(b, event.HostileKilled{Species: config.SpeciesLevel3}) }, []string{"play:death_alien"}},
		{"boss death", func(b *event.Bus) { event.Emit(b, event.HostileKilled{Species: config.SpeciesBoss}) }, []string{"play:death_boss", "stop:boss_hum"}},
		{"bullet hit", func(b *event.Bus) { event.Emit(b, event.ProjectileHit{}) }, []string{"play:bullet_hit"}},
		{"shield hit", func(b *event.Bus) { event.Emit(b, event.ShieldDamaged{}) }, []string{"play:shield_hit"}},
		{"shield destroyed", func(b *event.Bus) { event.Emit(b, event.ShieldDamaged{Destroyed: true}) }, []string{"play:shield_destroyed"}},
		{"shield repaired", func(b *event.Bus) { event.Emit(b, event.ShieldRepaired{}) }, []string{"play:shield_repaired"}},
		{"shield healed", func(b *event.Bus) { event.Emit(b, event.ShieldHealed{}) }, []string{"play:shield_healed"}},
		{"player hit", func(b *event.Bus) { event.Emit(b, event.PlayerHit{}) }, []string{"play:player_hit"}},
		{"boss appears", func(b *event.Bus) { event.Emit(b, event.BossAppeared{}) }, []string{"loop:boss_hum"}},
		{"wave start", func(b *event.Bus) { event.Emit(b, event.WaveStarted{}) }, []string{"play:wave_start"}},
		{"wave cleared", func(b *event.Bus) { event.Emit(b, event.WaveCleared{}) }, []string{"play:wave_cleared"}},
		{"game over", func(b *event.Bus) { event.Emit(b, event.GameFinished{}) }, []string{"stop:boss_hum", "play:game_over"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := event.NewBus()
			sounds := &fakeSounds{known: map[string]bool{"death_level1": true, "death_boss": true}}
			NewAudioFeedbackSystem(bus, sounds)
			dispatch := NewEventDispatchSystem(bus)

			tt.emit(bus)
			dispatch.Update(0)

			if !reflect.DeepEqual(sounds.calls, tt.want) {
				t.Errorf("calls = %v, want %v", sounds.calls, tt.want)
			}
		})
	}
}
