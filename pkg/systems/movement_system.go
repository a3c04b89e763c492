package systems

import (
	"math"

	"github.com/decker502/invaders/pkg/components"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/ecs"
	"github.com/decker502/invaders/pkg/timing"
)

// MovementSystem 轴对齐移动
//
//   - 带速度组件的实体按 velocity * dt 移动
//   - 子弹离开屏幕即删除
//   - 非蜂群敌人碰到左右边缘反向
//   - 玩家飞船限制在屏幕内
//   - 蜂群作为一个整体横向推进，碰边后反向并下压 StepDown，不低于 FloorY
type MovementSystem struct {
	entityManager *ecs.EntityManager
	swarm         config.SwarmConfig

	ScreenWidth  float64
	ScreenHeight float64
	FloorY       float64 // 蜂群底边的最低位置

	lastTick timing.Tick
	hasTick  bool
	fleetDir float64
}

// NewMovementSystem 创建移动系统
func NewMovementSystem(em *ecs.EntityManager, swarm config.SwarmConfig, screenWidth, screenHeight, floorY float64) *MovementSystem {
	return &MovementSystem{
		entityManager: em,
		swarm:         swarm,
		ScreenWidth:   screenWidth,
		ScreenHeight:  screenHeight,
		FloorY:        floorY,
		fleetDir:      1,
	}
}

func (s *MovementSystem) Phase() Phase {
	return PhaseUpdate
}

// FleetDirection 蜂群当前横向方向
func (s *MovementSystem) FleetDirection() float64 {
	return s.fleetDir
}

// Update 以上一个 tick 到 now 的时间差推进所有实体
func (s *MovementSystem) Update(now timing.Tick) {
	dt := 0.0
	if s.hasTick && now > s.lastTick {
		dt = float64(now-s.lastTick) / 1000.0
	}
	s.lastTick = now
	s.hasTick = true
	if dt == 0 {
		return
	}

	s.moveBodies(dt)
	s.moveFleet(dt)
}

func (s *MovementSystem) moveBodies(dt float64) {
	em := s.entityManager
	for _, id := range ecs.GetEntitiesWith2[*components.PositionComponent, *components.VelocityComponent](em) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
		pos.X += vel.VX * dt
		pos.Y += vel.VY * dt

		box, hasBox := ecs.GetComponent[*components.CollisionComponent](em, id)
		w, h := 0.0, 0.0
		if hasBox {
			w, h = box.Width, box.Height
		}

		switch {
		case ecs.HasComponent[*components.ProjectileComponent](em, id):
			if pos.Y+h < 0 || pos.Y > s.ScreenHeight || pos.X+w < 0 || pos.X > s.ScreenWidth {
				em.DestroyEntity(id)
			}
		case ecs.HasComponent[*components.PlayerShipComponent](em, id):
			pos.X = clamp(pos.X, 0, s.ScreenWidth-w)
		case ecs.HasComponent[*components.HostileComponent](em, id):
			if pos.X < 0 {
				pos.X = 0
				vel.VX = math.Abs(vel.VX)
			} else if pos.X+w > s.ScreenWidth {
				pos.X = s.ScreenWidth - w
				vel.VX = -math.Abs(vel.VX)
			}
		}
	}
}

func (s *MovementSystem) moveFleet(dt float64) {
	em := s.entityManager
	members := make([]ecs.EntityID, 0, 64)
	minX, maxX, maxY := math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, id := range ecs.GetEntitiesWith3[*components.HostileComponent, *components.PositionComponent, *components.CollisionComponent](em) {
		h, _ := ecs.GetComponent[*components.HostileComponent](em, id)
		if !h.InSwarm {
			continue
		}
		members = append(members, id)
	}
	if len(members) == 0 || s.swarm.AdvanceSpeed <= 0 {
		return
	}

	dx := s.fleetDir * s.swarm.AdvanceSpeed * dt
	for _, id := range members {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		box, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
		pos.X += dx
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X+box.Width)
		maxY = math.Max(maxY, pos.Y+box.Height)
	}

	var shift float64
	switch {
	case minX < 0:
		shift = -minX
		s.fleetDir = 1
	case maxX > s.ScreenWidth:
		shift = s.ScreenWidth - maxX
		s.fleetDir = -1
	default:
		return
	}

	down := s.swarm.StepDown
	if s.FloorY > 0 && maxY+down > s.FloorY {
		down = math.Max(0, s.FloorY-maxY)
	}
	for _, id := range members {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		pos.X += shift
		pos.Y += down
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
