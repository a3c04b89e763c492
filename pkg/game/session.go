package game

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/entities"
	"github.com/decker502/invaders/pkg/event"
	"github.com/decker502/invaders/pkg/input"
	"github.com/decker502/invaders/pkg/systems"
	"github.com/decker502/invaders/pkg/timing"
)

// SessionState 会话整体状态
type SessionState int

const (
	SessionNotStarted SessionState = iota
	SessionPlaying
	SessionBetweenWaves
	SessionVictory
	SessionDefeat
)

func (s SessionState) String() string {
	switch s {
	case SessionNotStarted:
		return "not_started"
	case SessionPlaying:
		return "playing"
	case SessionBetweenWaves:
		return "between_waves"
	case SessionVictory:
		return "victory"
	case SessionDefeat:
		return "defeat"
	}
	return "unknown"
}

// shipBottomMargin 飞船底边与屏幕底部的距离
const shipBottomMargin = 12

// HUD 界面显示所需的只读快照
type HUD struct {
	Wave     int // 从 1 开始
	Waves    int
	State    SessionState
	Scores   []int
	ResumeIn timing.Tick // 波次间隔剩余时间，其他状态为 0
}

// Session 一局游戏
//
// Session 拥有实体管理器、事件总线与全部系统，由外层按 tick 驱动。
// 所有状态只在调用 Update 的 goroutine 上修改。
type Session struct {
	content     *config.Content
	weaponLevel int
	screenW     float64
	screenH     float64
	log         *zap.Logger

	em      *ecs.EntityManager
	bus     *event.Bus
	runner  *systems.Runner
	audio   *AudioManager
	players []input.PlayerState

	firing  *systems.FiringSystem
	spawner *systems.SpawnSystem
	waves   *systems.WaveSystem
	shields *systems.ShieldSystem

	started bool
	defeat  bool
	now     timing.Tick
}

// NewSession 创建会话
//
// bindings 的数量即玩家人数；content 应已按该人数缩放。
// audio 可以为 nil（无声运行）。
func NewSession(content *config.Content, bindings []input.KeyBindings, weaponLevel int, screenW, screenH float64, audio *AudioManager, rng *rand.Rand, log *zap.Logger) (*Session, error) {
	if content == nil {
		return nil, fmt.Errorf("content cannot be nil")
	}
	if len(bindings) == 0 || len(bindings) > config.MaxPlayers {
		return nil, fmt.Errorf("player count %d out of range [1, %d]", len(bindings), config.MaxPlayers)
	}
	if err := content.ValidateWeaponLevel(weaponLevel); err != nil {
		return nil, err
	}
	player, err := content.Species.Lookup(config.SpeciesPlayer)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		content:     content,
		weaponLevel: weaponLevel,
		screenW:     screenW,
		screenH:     screenH,
		log:         log.Named("session"),
		em:          ecs.NewEntityManager(),
		bus:         event.NewBus(),
		runner:      systems.NewRunner(),
		audio:       audio,
		players:     input.NewPlayers(bindings),
	}

	floorY := s.shipY(player.Height)

	s.firing = systems.NewFiringSystem(s.em, s.bus, rng)
	s.shields = systems.NewShieldSystem(s.em, content.Shield, s.bus, log)
	s.spawner = systems.NewSpawnSystem(s.em, content.Species, screenW, s.bus, rng, log)
	s.waves = systems.NewWaveSystem(s.em, content.Waves, s.spawner, s.bus, log)

	s.runner.Register(systems.NewPlayerControlSystem(s.em, s.players, s.firing, s.waves))
	s.runner.Register(s.waves)
	s.runner.Register(s.spawner)
	s.runner.Register(systems.NewMovementSystem(s.em, content.Species.Swarm, screenW, screenH, floorY))
	s.runner.Register(systems.NewAlienFireSystem(s.em, s.firing))
	s.runner.Register(systems.NewCollisionSystem(s.em, content.Species, s.shields, s.bus, log))
	s.runner.Register(s.shields)
	s.runner.Register(systems.NewDeathAnimationSystem(s.em))
	s.runner.Register(systems.NewEventDispatchSystem(s.bus))

	if audio != nil {
		systems.NewAudioFeedbackSystem(s.bus, audio)
	}
	s.subscribe()

	return s, nil
}

func (s *Session) subscribe() {
	event.Subscribe(s.bus, func(ev event.HostileKilled) {
		if ev.Player >= 0 && ev.Player < len(s.players) {
			s.players[ev.Player].Score += ev.Score
		}
	})
	event.Subscribe(s.bus, func(ev event.PlayerHit) {
		if !ev.Destroyed || ev.Player < 0 || ev.Player >= len(s.players) {
			return
		}
		p := &s.players[ev.Player]
		p.Ship = ecs.InvalidEntity
		p.Reset()
		s.log.Info("player lost ship", zap.Int("player", ev.Player+1))
		if s.shipsLeft() == 0 {
			s.lose()
		}
	})
	event.Subscribe(s.bus, func(event.WaveCleared) {
		healed := s.shields.HealAll(s.content.Shield.WaveClearHeal, s.now)
		s.log.Debug("shields healed after wave", zap.Int("shields", healed))
	})
}

func (s *Session) shipY(shipHeight float64) float64 {
	return s.screenH - shipHeight - shipBottomMargin
}

func (s *Session) shipsLeft() int {
	n := 0
	for i := range s.players {
		if s.players[i].Ship != ecs.InvalidEntity {
			n++
		}
	}
	return n
}

func (s *Session) lose() {
	if s.defeat {
		return
	}
	s.defeat = true
	s.waves.Halt()
	if s.audio != nil {
		s.audio.StopNamed(systems.SoundBossHum)
		s.audio.Trigger(systems.SoundGameOver)
	}
	s.log.Info("all ships destroyed", zap.Int64("tick", int64(s.now)))
}

// Start 放置飞船与护盾并开始第一波
func (s *Session) Start(now timing.Tick) error {
	if s.started {
		return fmt.Errorf("session already started")
	}
	s.now = now

	player, err := s.content.Species.Lookup(config.SpeciesPlayer)
	if err != nil {
		return err
	}
	slot := s.screenW / float64(len(s.players))
	y := s.shipY(player.Height)
	shield := s.content.Shield

	for i := range s.players {
		x := slot*(float64(i)+0.5) - player.Width/2
		ship, err := entities.NewPlayerShip(s.em, s.content.Species, i, s.weaponLevel, x, y)
		if err != nil {
			return fmt.Errorf("failed to create ship for player %d: %w", i+1, err)
		}
		s.players[i].Ship = ship
		if shield.TrackShips {
			entities.NewShield(s.em, shield, ship, x, y-shield.TrackGap-shield.Height, now)
		}
	}

	for i := 0; i < shield.Bunkers; i++ {
		x := s.screenW*float64(i+1)/float64(shield.Bunkers+1) - shield.Width/2
		entities.NewShield(s.em, shield, ecs.InvalidEntity, x, s.screenH-shield.BunkerY, now)
	}

	s.started = true
	s.waves.Start(now)
	if s.audio != nil {
		s.audio.PlayMusic(systems.SoundMainMusic)
	}
	s.log.Info("session started",
		zap.Int("players", len(s.players)),
		zap.Int("waves", s.content.Waves.Len()),
		zap.Int("bunkers", shield.Bunkers))
	return nil
}

// Update 推进一个 tick
func (s *Session) Update(now timing.Tick) {
	if !s.started {
		return
	}
	s.now = now
	s.runner.Tick(now)
	if s.audio != nil {
		s.audio.Update(now)
	}
	s.em.RemoveMarkedEntities()
}

// DispatchInput 把指令交给对应玩家，编号越界返回 false
func (s *Session) DispatchInput(cmd input.Command) bool {
	if cmd.Player < 0 || cmd.Player >= len(s.players) {
		return false
	}
	s.players[cmd.Player].Apply(cmd.Kind)
	return true
}

// Render 按图层顺序输出全部可见实体
func (s *Session) Render(r Renderer) {
	for _, item := range collectRenderItems(s.em) {
		r.DrawItem(item)
	}
}

// State 当前会话状态
func (s *Session) State() SessionState {
	if s.defeat {
		return SessionDefeat
	}
	switch s.waves.State() {
	case systems.WavePlaying:
		return SessionPlaying
	case systems.WaveBetween:
		return SessionBetweenWaves
	case systems.WaveFinished:
		return SessionVictory
	}
	return SessionNotStarted
}

// GameOver 胜利或失败
func (s *Session) GameOver() bool {
	st := s.State()
	return st == SessionVictory || st == SessionDefeat
}

// HUD 返回当前界面快照
func (s *Session) HUD() HUD {
	h := HUD{
		Wave:   s.waves.WaveIndex() + 1,
		Waves:  s.content.Waves.Len(),
		State:  s.State(),
		Scores: make([]int, len(s.players)),
	}
	if h.Wave > h.Waves {
		h.Wave = h.Waves
	}
	for i := range s.players {
		h.Scores[i] = s.players[i].Score
	}
	if h.State == SessionBetweenWaves {
		if left := s.waves.ResumeTick() - s.now; left > 0 {
			h.ResumeIn = left
		}
	}
	return h
}

// Players 玩家状态（只读）
func (s *Session) Players() []input.PlayerState {
	return s.players
}

// Entities 实体管理器，供渲染与测试查询
func (s *Session) Entities() *ecs.EntityManager {
	return s.em
}

// Close 停止全部声音并释放实体
func (s *Session) Close() {
	if s.audio != nil {
		s.audio.StopAll()
	}
	s.bus.Reset()
	s.em.Clear()
}
