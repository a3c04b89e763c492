package config

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// 物种标识
const (
	SpeciesLevel1    = "level1" // 成排出现的蜂群
	SpeciesLevel2    = "level2"
	SpeciesLevel3    = "level3"
	SpeciesLevel4    = "level4"
	SpeciesBombarder = "bombarder"
	SpeciesBoss      = "boss"
	SpeciesPlayer    = "player"
)

// HostileSpecies 敌方物种的固定处理顺序
// 生成调度每 tick 按此顺序遍历，保证结果与 map 遍历顺序无关
var HostileSpecies = []string{
	SpeciesLevel1,
	SpeciesLevel2,
	SpeciesLevel3,
	SpeciesLevel4,
	SpeciesBombarder,
	SpeciesBoss,
}

var (
	// ErrUnknownSpecies 查询了未配置的物种
	ErrUnknownSpecies = errors.New("unknown species")
	// ErrUnknownLevel 物种没有该等级的开火档位
	ErrUnknownLevel = errors.New("unknown level")
)

// FireProfile 某物种某等级的开火参数
type FireProfile struct {
	MaxBullets    int     `yaml:"maxBullets"`    // 同时存活的子弹上限（按所有者统计）
	MinIntervalMs int64   `yaml:"minIntervalMs"` // 冷却下限
	MaxIntervalMs int64   `yaml:"maxIntervalMs"` // 冷却上限
	BulletSpeed   float64 `yaml:"bulletSpeed"`   // 子弹速度（像素/秒）
}

// SpawnTiming 物种生成节奏
type SpawnTiming struct {
	MinIntervalMs     int64 `yaml:"minIntervalMs"`
	MaxIntervalMs     int64 `yaml:"maxIntervalMs"`
	ActivationDelayMs int64 `yaml:"activationDelayMs"` // 波次开始后的首个可生成时刻
}

// SpeciesConfig 单个物种的属性
type SpeciesConfig struct {
	Width        float64             `yaml:"width"`
	Height       float64             `yaml:"height"`
	HitPoints    int                 `yaml:"hitPoints"`
	Speed        float64             `yaml:"speed"` // 水平移动速度（像素/秒）
	Score        int                 `yaml:"score"`
	Color        string              `yaml:"color"` // colornames 名称，渲染占位用
	DeathFrames  []string            `yaml:"deathFrames"`
	DeathFrameMs int64               `yaml:"deathFrameMs"`
	Fire         map[int]FireProfile `yaml:"fire"`  // 等级 -> 开火档位，为空表示不开火
	Spawn        SpawnTiming         `yaml:"spawn"`
}

// SwarmConfig 蜂群（level1 行）补充规则
type SwarmConfig struct {
	AliensPerRow           int     `yaml:"aliensPerRow"`
	MaxVisibleRows         int     `yaml:"maxVisibleRows"`
	ReinforcementThreshold int     `yaml:"reinforcementThreshold"` // 存活行数 <= 此值时才武装新行计时器
	RowDelayMs             int64   `yaml:"rowDelayMs"`             // 固定短延迟，不使用随机区间
	StartingRows           int     `yaml:"startingRows"`
	RowSpacing             float64 `yaml:"rowSpacing"`
	ColumnSpacing          float64 `yaml:"columnSpacing"`
	TopMargin              float64 `yaml:"topMargin"`
	AdvanceSpeed           float64 `yaml:"advanceSpeed"`           // 舰队横向推进速度
	StepDown               float64 `yaml:"stepDown"`               // 碰到边缘后下压距离
}

// ScalingConfig 多人缩放参数（只在开局应用一次）
type ScalingConfig struct {
	IntervalReductionPerPlayer float64        `yaml:"intervalReductionPerPlayer"` // interval / (1 + r*(n-1))
	FleetSpeedPerPlayer        float64        `yaml:"fleetSpeedPerPlayer"`        // speed * (1 + s*(n-1))
	RowsPerPlayer              int            `yaml:"rowsPerPlayer"`
	StartingRowsPerPlayer      int            `yaml:"startingRowsPerPlayer"`
	QuotaPerPlayer             map[string]int `yaml:"quotaPerPlayer"`
}

// SpeciesTable species.yaml 的整体结构
type SpeciesTable struct {
	Species map[string]*SpeciesConfig `yaml:"species"`
	Swarm   SwarmConfig               `yaml:"swarm"`
	Scaling ScalingConfig             `yaml:"scaling"`
}

// ParseSpeciesTable 解析 species.yaml
func ParseSpeciesTable(data []byte) (*SpeciesTable, error) {
	var table SpeciesTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse species YAML: %w", err)
	}
	applySpeciesDefaults(&table)
	if err := validateSpeciesTable(&table); err != nil {
		return nil, fmt.Errorf("invalid species config: %w", err)
	}
	return &table, nil
}

// applySpeciesDefaults 为缺省字段设置默认值
func applySpeciesDefaults(table *SpeciesTable) {
	for _, sp := range table.Species {
		if sp == nil {
			continue
		}
		if sp.HitPoints == 0 {
			sp.HitPoints = 1
		}
		if sp.Color == "" {
			sp.Color = "white"
		}
		if sp.DeathFrameMs == 0 {
			sp.DeathFrameMs = 100
		}
		for level, fp := range sp.Fire {
			if fp.BulletSpeed == 0 {
				fp.BulletSpeed = 240
				sp.Fire[level] = fp
			}
		}
	}

	if table.Swarm.AliensPerRow == 0 {
		table.Swarm.AliensPerRow = 8
	}
	if table.Swarm.MaxVisibleRows == 0 {
		table.Swarm.MaxVisibleRows = 5
	}
	if table.Swarm.RowSpacing == 0 {
		table.Swarm.RowSpacing = 28
	}
	if table.Swarm.ColumnSpacing == 0 {
		table.Swarm.ColumnSpacing = 40
	}
	if table.Scaling.QuotaPerPlayer == nil {
		table.Scaling.QuotaPerPlayer = map[string]int{}
	}
}

// validateSpeciesTable 验证物种表
func validateSpeciesTable(table *SpeciesTable) error {
	if len(table.Species) == 0 {
		return fmt.Errorf("species table cannot be empty")
	}

	for _, name := range append(append([]string{}, HostileSpecies...), SpeciesPlayer) {
		sp, ok := table.Species[name]
		if !ok || sp == nil {
			return fmt.Errorf("species %q is required", name)
		}
		if sp.Width <= 0 || sp.Height <= 0 {
			return fmt.Errorf("species %q: width and height must be positive", name)
		}
		if len(sp.DeathFrames) == 0 && name != SpeciesPlayer {
			return fmt.Errorf("species %q: at least one death frame is required", name)
		}
		if sp.Spawn.MinIntervalMs < 0 || sp.Spawn.MaxIntervalMs < sp.Spawn.MinIntervalMs {
			return fmt.Errorf("species %q: spawn interval must satisfy 0 <= min <= max", name)
		}
		if sp.Spawn.ActivationDelayMs < 0 {
			return fmt.Errorf("species %q: activationDelayMs cannot be negative", name)
		}
		for level, fp := range sp.Fire {
			if level < 1 {
				return fmt.Errorf("species %q: fire level must be >= 1, got %d", name, level)
			}
			if fp.MaxBullets < 1 {
				return fmt.Errorf("species %q level %d: maxBullets must be >= 1", name, level)
			}
			if fp.MinIntervalMs < 0 || fp.MaxIntervalMs < fp.MinIntervalMs {
				return fmt.Errorf("species %q level %d: fire interval must satisfy 0 <= min <= max", name, level)
			}
		}
	}

	if len(table.Species[SpeciesPlayer].Fire) == 0 {
		return fmt.Errorf("species %q must define at least one fire level", SpeciesPlayer)
	}

	sw := table.Swarm
	if sw.MaxVisibleRows < 1 {
		return fmt.Errorf("swarm.maxVisibleRows must be >= 1")
	}
	if sw.ReinforcementThreshold < 0 || sw.ReinforcementThreshold >= sw.MaxVisibleRows {
		return fmt.Errorf("swarm.reinforcementThreshold must be in [0, maxVisibleRows)")
	}
	if sw.RowDelayMs < 0 {
		return fmt.Errorf("swarm.rowDelayMs cannot be negative")
	}
	if sw.StartingRows < 0 {
		return fmt.Errorf("swarm.startingRows cannot be negative")
	}

	if table.Scaling.IntervalReductionPerPlayer < 0 || table.Scaling.FleetSpeedPerPlayer < 0 {
		return fmt.Errorf("scaling factors cannot be negative")
	}
	return nil
}

// Lookup 获取物种配置
func (t *SpeciesTable) Lookup(species string) (*SpeciesConfig, error) {
	sp, ok := t.Species[species]
	if !ok || sp == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, species)
	}
	return sp, nil
}

// FireProfileFor 查询物种在某等级的开火档位
// 未知物种或等级属于配置错误，调用方应在启动阶段处理
func (t *SpeciesTable) FireProfileFor(species string, level int) (FireProfile, error) {
	sp, err := t.Lookup(species)
	if err != nil {
		return FireProfile{}, err
	}
	fp, ok := sp.Fire[level]
	if !ok {
		return FireProfile{}, fmt.Errorf("%w: species %q has no fire profile for level %d", ErrUnknownLevel, species, level)
	}
	return fp, nil
}

// Fires 物种是否会开火
func (t *SpeciesTable) Fires(species string) bool {
	sp, ok := t.Species[species]
	return ok && sp != nil && len(sp.Fire) > 0
}

// FireLevels 返回已配置的开火等级（升序）
func (sp *SpeciesConfig) FireLevels() []int {
	levels := make([]int, 0, len(sp.Fire))
	for level := range sp.Fire {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// clone 深拷贝（缩放时生成派生配置使用）
func (t *SpeciesTable) clone() *SpeciesTable {
	out := &SpeciesTable{
		Species: make(map[string]*SpeciesConfig, len(t.Species)),
		Swarm:   t.Swarm,
		Scaling: t.Scaling,
	}
	out.Scaling.QuotaPerPlayer = make(map[string]int, len(t.Scaling.QuotaPerPlayer))
	for k, v := range t.Scaling.QuotaPerPlayer {
		out.Scaling.QuotaPerPlayer[k] = v
	}
	for name, sp := range t.Species {
		if sp == nil {
			continue
		}
		cp := *sp
		cp.DeathFrames = append([]string(nil), sp.DeathFrames...)
		cp.Fire = make(map[int]FireProfile, len(sp.Fire))
		for level, fp := range sp.Fire {
			cp.Fire[level] = fp
		}
		out.Species[name] = &cp
	}
	return out
}
