package systems

import (
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/event"
	"github.com/decker502/invaders/pkg/timing"
)

// 音效注册键
const (
	SoundPlayerShot      = "player_shot"
	SoundAlienFire       = "alien_fire"
	SoundBombarderFire   = "bombarder_fire"
	SoundBulletHit       = "bullet_hit"
	SoundDeathPrefix     = "death_"
	SoundDeathDefault    = "death_alien"
	SoundShieldHit       = "shield_hit"
	SoundShieldDestroyed = "shield_destroyed"
	SoundShieldRepaired  = "shield_repaired"
	SoundShieldHealed    = "shield_healed"
	SoundPlayerHit       = "player_hit"
	SoundWaveStart       = "wave_start"
	SoundWaveCleared     = "wave_cleared"
	SoundGameOver        = "game_over"
	SoundBossHum         = "boss_hum"
	SoundMainMusic       = "music_main"
)

// SoundPlayer 音频仲裁引擎对反馈层暴露的接口
// 被拒绝的播放（声道不足、已关闭）是正常结果，调用方不关心返回值
type SoundPlayer interface {
	HasSound(key string) bool
	Trigger(key string) bool
	StartLoop(key string) bool
	StopNamed(name string) bool
}

// AudioFeedbackSystem 把游戏事件映射为音效
// 订阅在构造时完成，事件在输出阶段由 EventDispatchSystem 分发
type AudioFeedbackSystem struct {
	sounds SoundPlayer
}

// NewAudioFeedbackSystem 创建音频反馈并订阅事件
func NewAudioFeedbackSystem(bus *event.Bus, sounds SoundPlayer) *AudioFeedbackSystem {
	s := &AudioFeedbackSystem{sounds: sounds}

	event.Subscribe(bus, func(ev event.ShotFired) {
		switch {
		case ev.Player:
			s.sounds.Trigger(SoundPlayerShot)
		case ev.Species == config.SpeciesBombarder:
			s.sounds.Trigger(SoundBombarderFire)
		default:
			s.sounds.Trigger(SoundAlienFire)
		}
	})
	event.Subscribe(bus, func(ev event.HostileKilled) {
		s.sounds.Trigger(s.deathKey(ev.Species))
		if ev.Species == config.SpeciesBoss {
			s.sounds.StopNamed(SoundBossHum)
		}
	})
	event.Subscribe(bus, func(event.ProjectileHit) {
		s.sounds.Trigger(SoundBulletHit)
	})
	event.Subscribe(bus, func(ev event.ShieldDamaged) {
		if ev.Destroyed {
			s.sounds.Trigger(SoundShieldDestroyed)
			return
		}
		s.sounds.Trigger(SoundShieldHit)
	})
	event.Subscribe(bus, func(event.ShieldRepaired) {
		s.sounds.Trigger(SoundShieldRepaired)
	})
	event.Subscribe(bus, func(event.ShieldHealed) {
		s.sounds.Trigger(SoundShieldHealed)
	})
	event.Subscribe(bus, func(event.PlayerHit) {
		s.sounds.Trigger(SoundPlayerHit)
	})
	event.Subscribe(bus, func(event.BossAppeared) {
		s.sounds.StartLoop(SoundBossHum)
	})
	event.Subscribe(bus, func(event.WaveStarted) {
		s.sounds.Trigger(SoundWaveStart)
	})
	event.Subscribe(bus, func(event.WaveCleared) {
		s.sounds.Trigger(SoundWaveCleared)
	})
	event.Subscribe(bus, func(event.GameFinished) {
		s.sounds.StopNamed(SoundBossHum)
		s.sounds.Trigger(SoundGameOver)
	})
	return s
}

// deathKey 优先使用物种专属死亡音效
func (s *AudioFeedbackSystem) deathKey(species string) string {
	if key := SoundDeathPrefix + species; s.sounds.HasSound(key) {
		return key
	}
	return SoundDeathDefault
}

// EventDispatchSystem 输出阶段一次性分发本 tick 的全部事件
type EventDispatchSystem struct {
	bus *event.Bus
}

// NewEventDispatchSystem 创建事件分发系统
func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() Phase {
	return PhaseOutput
}

func (s *EventDispatchSystem) Update(now timing.Tick) {
	s.bus.Dispatch()
}
