package systems

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/entities"
	"github.com/decker502/invaders/pkg/event"
	"github.com/decker502/invaders/pkg/timing"
)

// SpawnPhase 单个物种在本波中的生成阶段
type SpawnPhase int

const (
	SpawnIdle      SpawnPhase = iota // 激活延迟未到
	SpawnArmed                       // 可生成
	SpawnExhausted                   // 配额用完
)

func (p SpawnPhase) String() string {
	switch p {
	case SpawnIdle:
		return "idle"
	case SpawnArmed:
		return "armed"
	case SpawnExhausted:
		return "exhausted"
	}
	return "unknown"
}

// SpeciesSchedule 单个物种的生成调度状态
// level1 的 Remaining 与 Spawned 以“行”为单位
type SpeciesSchedule struct {
	Species           string
	Phase             SpawnPhase
	Remaining         int
	Spawned           int
	NextSpawnTick     timing.Tick
	MinIntervalMs     int64
	MaxIntervalMs     int64
	ActivationDelayMs int64
}

// SpawnSystem 波次生成调度
//
// 职责：
//   - 每个物种独立的 Idle → Armed → Exhausted 状态机
//   - 随机间隔生成：NextSpawnTick = now + uniform(min, max)
//   - 蜂群（level1 行）补充规则：同屏最多 MaxVisibleRows 行，
//     存活行数降到阈值以下才武装固定延迟的行计时器
//
// 架构说明：
//   - 由 WaveSystem 在波次开始时调用 StartWave
//   - 物种按固定顺序处理，各物种状态互不相交
//   - 使用 entities 包的工厂函数创建实体
type SpawnSystem struct {
	entityManager *ecs.EntityManager
	species       *config.SpeciesTable
	bus           *event.Bus
	rng           *rand.Rand
	log           *zap.Logger

	screenWidth float64

	waveStart timing.Tick
	waveIndex int
	level     int
	active    bool

	schedules map[string]*SpeciesSchedule

	// 蜂群补充
	rowTimer timing.Timer
	nextRow  int
}

// NewSpawnSystem 创建生成系统
func NewSpawnSystem(em *ecs.EntityManager, species *config.SpeciesTable, screenWidth float64, bus *event.Bus, rng *rand.Rand, log *zap.Logger) *SpawnSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &SpawnSystem{
		entityManager: em,
		species:       species,
		bus:           bus,
		rng:           rng,
		log:           log.Named("spawn"),
		screenWidth:   screenWidth,
		schedules:     make(map[string]*SpeciesSchedule, len(config.HostileSpecies)),
		rowTimer:      timing.NewIntervalTimer(species.Swarm.RowDelayMs),
	}
}

func (s *SpawnSystem) Phase() Phase {
	return PhaseSpawn
}

// StartWave 按波次配额重置所有物种的调度
// 蜂群起始行（受配额与可见行数限制）在这里立即生成
func (s *SpawnSystem) StartWave(waveIndex int, wave config.WaveDescriptor, now timing.Tick) {
	s.waveStart = now
	s.waveIndex = waveIndex
	s.level = wave.Level
	s.active = true
	s.rowTimer.Stop()

	for _, species := range config.HostileSpecies {
		sched := &SpeciesSchedule{
			Species:   species,
			Phase:     SpawnIdle,
			Remaining: wave.Quota(species),
		}
		if sp, err := s.species.Lookup(species); err == nil {
			sched.MinIntervalMs = sp.Spawn.MinIntervalMs
			sched.MaxIntervalMs = sp.Spawn.MaxIntervalMs
			sched.ActivationDelayMs = sp.Spawn.ActivationDelayMs
		}
		if species == config.SpeciesLevel1 {
			sched.ActivationDelayMs = 0
		}
		if sched.Remaining <= 0 {
			sched.Remaining = 0
			sched.Phase = SpawnExhausted
		}
		s.schedules[species] = sched
	}

	swarm := s.schedules[config.SpeciesLevel1]
	if swarm.Phase != SpawnExhausted {
		swarm.Phase = SpawnArmed
		initial := min(s.species.Swarm.StartingRows, swarm.Remaining, s.species.Swarm.MaxVisibleRows)
		for i := 0; i < initial; i++ {
			if !s.spawnRow(now) {
				break
			}
			swarm.Remaining--
			swarm.Spawned++
		}
		if swarm.Remaining == 0 {
			swarm.Phase = SpawnExhausted
		}
	}

	s.log.Debug("wave schedule armed",
		zap.Int("wave", waveIndex),
		zap.Int("level", wave.Level),
		zap.Int("rows", wave.RowsLevel1),
		zap.Int("total", wave.Total()))
}

// Update 处理所有到期的生成
func (s *SpawnSystem) Update(now timing.Tick) {
	if !s.active {
		return
	}
	for _, species := range config.HostileSpecies {
		sched := s.schedules[species]
		if sched == nil || sched.Phase == SpawnExhausted {
			continue
		}
		if species == config.SpeciesLevel1 {
			s.updateSwarm(sched, now)
			continue
		}
		s.updateSpecies(sched, now)
	}
}

func (s *SpawnSystem) updateSpecies(sched *SpeciesSchedule, now timing.Tick) {
	if sched.Phase == SpawnIdle {
		armTick := s.waveStart + timing.Tick(sched.ActivationDelayMs)
		if now < armTick {
			return
		}
		sched.Phase = SpawnArmed
		sched.NextSpawnTick = armTick // 首次生成在武装当 tick 到期
	}

	if now < sched.NextSpawnTick || sched.Remaining <= 0 {
		return
	}

	if s.spawnOne(sched.Species, now) {
		sched.Remaining--
		sched.Spawned++
	}
	sched.NextSpawnTick = now + timing.Tick(timing.DrawInterval(s.rng, sched.MinIntervalMs, sched.MaxIntervalMs))
	if sched.Remaining == 0 {
		sched.Phase = SpawnExhausted
	}
}

// updateSwarm 蜂群补充：存活行数 <= 阈值且未满时才武装行计时器
func (s *SpawnSystem) updateSwarm(sched *SpeciesSchedule, now timing.Tick) {
	swarm := s.species.Swarm
	live := s.LiveRows()

	if !s.rowTimer.Started() {
		if live <= swarm.ReinforcementThreshold && live < swarm.MaxVisibleRows {
			s.rowTimer.Start(now)
		}
		return
	}

	if s.rowTimer.Advance(now).Kind != timing.TransitionTick {
		return
	}
	s.rowTimer.Stop()
	if live >= swarm.MaxVisibleRows {
		return
	}

	if !s.spawnRow(now) {
		return
	}
	sched.Remaining--
	sched.Spawned++
	if sched.Remaining == 0 {
		sched.Phase = SpawnExhausted
	}
}

// LiveRows 当前存活的蜂群行数
func (s *SpawnSystem) LiveRows() int {
	rows := make(map[int]struct{})
	for _, id := range ecs.GetEntitiesWith1[*components.HostileComponent](s.entityManager) {
		h, _ := ecs.GetComponent[*components.HostileComponent](s.entityManager, id)
		if h.InSwarm {
			rows[h.Row] = struct{}{}
		}
	}
	return len(rows)
}

// spawnRow 在现有蜂群上方生成一整行，失败时不计入配额
func (s *SpawnSystem) spawnRow(now timing.Tick) bool {
	swarm := s.species.Swarm
	y := swarm.TopMargin
	if top, ok := s.swarmTop(); ok {
		y = top - swarm.RowSpacing
		if y < 0 {
			y = 0
		}
	}

	row := s.nextRow
	if _, err := entities.NewAlienRow(s.entityManager, s.species, row, s.level, y, s.screenWidth, now, s.rng); err != nil {
		s.log.Error("failed to spawn swarm row", zap.Int("row", row), zap.Error(err))
		return false
	}
	s.nextRow++
	s.log.Debug("swarm row spawned", zap.Int("row", row), zap.Float64("y", y))
	return true
}

// swarmTop 蜂群最上方一行的纵坐标
func (s *SpawnSystem) swarmTop() (float64, bool) {
	top, found := 0.0, false
	for _, id := range ecs.GetEntitiesWith2[*components.HostileComponent, *components.PositionComponent](s.entityManager) {
		h, _ := ecs.GetComponent[*components.HostileComponent](s.entityManager, id)
		if !h.InSwarm {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !found || pos.Y < top {
			top, found = pos.Y, true
		}
	}
	return top, found
}

// spawnOne 生成一个非蜂群敌人
// 普通敌人在蜂群区域内随机高度巡航，Boss 贴近屏幕顶部
func (s *SpawnSystem) spawnOne(species string, now timing.Tick) bool {
	sp, err := s.species.Lookup(species)
	if err != nil {
		s.log.Error("failed to spawn", zap.String("species", species), zap.Error(err))
		return false
	}
	swarm := s.species.Swarm

	maxX := s.screenWidth - sp.Width
	if maxX < 0 {
		maxX = 0
	}
	x := s.randFloat() * maxX
	y := swarm.TopMargin + s.randFloat()*float64(swarm.MaxVisibleRows)*swarm.RowSpacing
	if species == config.SpeciesBoss {
		y = swarm.TopMargin / 4
	}
	dir := 1.0
	if s.randFloat() < 0.5 {
		dir = -1
	}

	id, err := entities.NewAlien(s.entityManager, s.species, entities.AlienSpec{
		Species:   species,
		Level:     s.level,
		X:         x,
		Y:         y,
		Direction: dir,
		Row:       -1,
	}, now, s.rng)
	if err != nil {
		s.log.Error("failed to spawn", zap.String("species", species), zap.Error(err))
		return false
	}

	if species == config.SpeciesBoss && s.bus != nil {
		event.Emit(s.bus, event.BossAppeared{Entity: id})
	}
	s.log.Debug("hostile spawned", zap.String("species", species), zap.Uint64("entity", uint64(id)))
	return true
}

func (s *SpawnSystem) randFloat() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	return s.rng.Float64()
}

// Exhausted 本波所有物种配额是否用完
func (s *SpawnSystem) Exhausted() bool {
	if !s.active {
		return false
	}
	for _, sched := range s.schedules {
		if sched.Phase != SpawnExhausted {
			return false
		}
	}
	return true
}

// Schedule 返回物种调度状态的副本
func (s *SpawnSystem) Schedule(species string) (SpeciesSchedule, bool) {
	sched, ok := s.schedules[species]
	if !ok {
		return SpeciesSchedule{}, false
	}
	return *sched, true
}

// Active 是否正在调度（StartWave 之后、Stop 之前）
func (s *SpawnSystem) Active() bool {
	return s.active
}

// Stop 停止生成（游戏结束）
func (s *SpawnSystem) Stop() {
	s.active = false
	s.rowTimer.Stop()
}
