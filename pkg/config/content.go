package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// ErrAlreadyScaled 对已缩放的派生配置再次缩放
var ErrAlreadyScaled = errors.New("content already scaled for players")

// 内容文件名
const (
	SpeciesFile = "species.yaml"
	WavesFile   = "waves.yaml"
	ShieldFile  = "shield.yaml"
	AudioFile   = "audio.yaml"
)

// Content 游戏内容的不可变集合
//
// 启动时构建一次，之后各组件只读引用。
// 多人缩放通过 ScaleForPlayers 生成派生副本，原始内容保持不变。
type Content struct {
	Species *SpeciesTable
	Waves   *WaveTable
	Shield  *ShieldConfig
	Audio   *AudioConfig

	players int // 0 表示尚未缩放
}

// LoadContent 从 fsys 的 dir 目录加载全部内容表并验证
func LoadContent(fsys fs.FS, dir string) (*Content, error) {
	read := func(name string) ([]byte, error) {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	}

	c := &Content{}
	data, err := read(SpeciesFile)
	if err != nil {
		return nil, err
	}
	if c.Species, err = ParseSpeciesTable(data); err != nil {
		return nil, err
	}

	if data, err = read(WavesFile); err != nil {
		return nil, err
	}
	if c.Waves, err = ParseWaveTable(data); err != nil {
		return nil, err
	}

	if data, err = read(ShieldFile); err != nil {
		return nil, err
	}
	if c.Shield, err = ParseShieldConfig(data); err != nil {
		return nil, err
	}

	if data, err = read(AudioFile); err != nil {
		return nil, err
	}
	if c.Audio, err = ParseAudioConfig(data); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate 跨表一致性检查
// 每个波次中出现的开火物种都必须有该波等级的开火档位，
// 这样运行期的查询永远不会遇到未知物种或等级。
func (c *Content) Validate() error {
	if c.Species == nil || c.Waves == nil || c.Shield == nil || c.Audio == nil {
		return fmt.Errorf("content is incomplete")
	}
	for i, w := range c.Waves.Waves {
		for _, species := range HostileSpecies {
			if w.Quota(species) == 0 {
				continue
			}
			if _, err := c.Species.Lookup(species); err != nil {
				return fmt.Errorf("wave %d: %w", i, err)
			}
			if !c.Species.Fires(species) {
				continue
			}
			if _, err := c.Species.FireProfileFor(species, w.Level); err != nil {
				return fmt.Errorf("wave %d: %w", i, err)
			}
		}
	}
	return nil
}

// ValidateWeaponLevel 检查玩家武器等级是否有对应档位
func (c *Content) ValidateWeaponLevel(level int) error {
	_, err := c.Species.FireProfileFor(SpeciesPlayer, level)
	return err
}

// Players 缩放时使用的人数，未缩放返回 0
func (c *Content) Players() int {
	return c.players
}

// Scaled 是否为缩放后的派生配置
func (c *Content) Scaled() bool {
	return c.players > 0
}

// ScaleForPlayers 生成按人数缩放的派生副本
//
// 只允许在原始内容上调用一次：生成间隔按比例缩短、舰队速度提高、
// 每波配额与起始行数按人数累加。scaler 为 nil 时使用 DefaultScaler。
func (c *Content) ScaleForPlayers(players int, scaler Scaler) (*Content, error) {
	if c.Scaled() {
		return nil, ErrAlreadyScaled
	}
	if players < 1 || players > MaxPlayers {
		return nil, fmt.Errorf("players must be in [1, %d], got %d", MaxPlayers, players)
	}
	if scaler == nil {
		scaler = DefaultScaler{Config: c.Species.Scaling}
	}

	out := &Content{
		Species: c.Species.clone(),
		Waves:   c.Waves.clone(),
		Shield:  c.Shield,
		Audio:   c.Audio,
		players: players,
	}

	for _, species := range HostileSpecies {
		sp, ok := out.Species.Species[species]
		if !ok {
			continue
		}
		sp.Spawn.MinIntervalMs = clampInterval(scaler.ScaleInterval(species, sp.Spawn.MinIntervalMs, players))
		sp.Spawn.MaxIntervalMs = clampInterval(scaler.ScaleInterval(species, sp.Spawn.MaxIntervalMs, players))
		if sp.Spawn.MaxIntervalMs < sp.Spawn.MinIntervalMs {
			sp.Spawn.MaxIntervalMs = sp.Spawn.MinIntervalMs
		}
	}

	out.Species.Swarm.AdvanceSpeed = scaler.ScaleSpeed(out.Species.Swarm.AdvanceSpeed, players)
	if extra := players - 1; extra > 0 {
		out.Species.Swarm.StartingRows += c.Species.Scaling.StartingRowsPerPlayer * extra
	}

	for i := range out.Waves.Waves {
		w := &out.Waves.Waves[i]
		for _, species := range HostileSpecies {
			if species == SpeciesBoss {
				continue
			}
			quota := w.Quota(species)
			scaled := scaler.ScaleQuota(species, i, quota, players)
			if scaled < quota {
				scaled = quota
			}
			w.addQuota(species, scaled-quota)
		}
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("scaled content: %w", err)
	}
	return out, nil
}

func clampInterval(ms int64) int64 {
	if ms < 0 {
		return 0
	}
	return ms
}
