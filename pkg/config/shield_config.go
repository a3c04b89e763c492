package config

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ShieldConfig shield.yaml 结构
//
// 阶段索引 0 为最佳状态，Stages-1 为摧毁前的最差状态。
type ShieldConfig struct {
	Stages             int      `yaml:"stages"`             // K
	StageColors        []string `yaml:"stageColors"`        // 每个阶段的颜色（colornames 名称）
	RegenDelayMs       int64    `yaml:"regenDelayMs"`       // 受击后暂停再生的时长，也是再生节奏
	RegenCapIndex      int      `yaml:"regenCapIndex"`      // 被动再生能到达的最佳阶段
	RepairHitsPerLevel int      `yaml:"repairHitsPerLevel"` // 玩家子弹修复一级所需命中数
	RepairCapIndex     int      `yaml:"repairCapIndex"`     // 修复能到达的最佳阶段
	WaveClearHeal      int      `yaml:"waveClearHeal"`      // 清空波次后的治疗量
	Width              float64  `yaml:"width"`
	Height             float64  `yaml:"height"`
	TrackGap           float64  `yaml:"trackGap"`           // 追踪模式下护盾与飞船的间距
	TrackShips         bool     `yaml:"trackShips"`         // 每个玩家飞船附带追踪护盾
	Bunkers            int      `yaml:"bunkers"`            // 固定掩体护盾数量
	BunkerY            float64  `yaml:"bunkerY"`            // 掩体纵坐标（距屏幕底部）

	// Palette 由 StageColors 解析得到，加载后只读
	Palette []color.RGBA `yaml:"-"`
}

// ParseShieldConfig 解析 shield.yaml
func ParseShieldConfig(data []byte) (*ShieldConfig, error) {
	var cfg ShieldConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse shield YAML: %w", err)
	}
	applyShieldDefaults(&cfg)
	if err := validateShieldConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid shield config: %w", err)
	}
	palette, err := resolvePalette(cfg.StageColors)
	if err != nil {
		return nil, fmt.Errorf("invalid shield config: %w", err)
	}
	cfg.Palette = palette
	return &cfg, nil
}

// applyShieldDefaults 默认值
func applyShieldDefaults(cfg *ShieldConfig) {
	if cfg.Stages == 0 {
		cfg.Stages = 8
	}
	if cfg.RepairHitsPerLevel == 0 {
		cfg.RepairHitsPerLevel = 3
	}
	if cfg.Width == 0 {
		cfg.Width = 64
	}
	if cfg.Height == 0 {
		cfg.Height = 8
	}
	if cfg.TrackGap == 0 {
		cfg.TrackGap = 6
	}
}

// validateShieldConfig 验证护盾配置
func validateShieldConfig(cfg *ShieldConfig) error {
	if cfg.Stages < 1 {
		return fmt.Errorf("stages must be >= 1, got %d", cfg.Stages)
	}
	if len(cfg.StageColors) != cfg.Stages {
		return fmt.Errorf("stageColors must list exactly %d colors, got %d", cfg.Stages, len(cfg.StageColors))
	}
	if cfg.RegenDelayMs < 0 {
		return fmt.Errorf("regenDelayMs cannot be negative")
	}
	if cfg.RegenCapIndex < 0 || cfg.RegenCapIndex >= cfg.Stages {
		return fmt.Errorf("regenCapIndex must be in [0, %d), got %d", cfg.Stages, cfg.RegenCapIndex)
	}
	if cfg.RepairCapIndex < 0 || cfg.RepairCapIndex >= cfg.Stages {
		return fmt.Errorf("repairCapIndex must be in [0, %d), got %d", cfg.Stages, cfg.RepairCapIndex)
	}
	if cfg.RepairHitsPerLevel < 1 {
		return fmt.Errorf("repairHitsPerLevel must be >= 1")
	}
	if cfg.WaveClearHeal < 0 {
		return fmt.Errorf("waveClearHeal cannot be negative")
	}
	if cfg.Bunkers < 0 {
		return fmt.Errorf("bunkers cannot be negative")
	}
	return nil
}

// resolvePalette 将颜色名解析为 RGBA
func resolvePalette(names []string) ([]color.RGBA, error) {
	palette := make([]color.RGBA, len(names))
	for i, name := range names {
		c, ok := colornames.Map[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("stageColors[%d]: unknown color name %q", i, name)
		}
		palette[i] = c
	}
	return palette, nil
}

// StageColor 返回阶段颜色，越界时钳制
func (cfg *ShieldConfig) StageColor(stage int) color.RGBA {
	if len(cfg.Palette) == 0 {
		return colornames.White
	}
	if stage < 0 {
		stage = 0
	}
	if stage >= len(cfg.Palette) {
		stage = len(cfg.Palette) - 1
	}
	return cfg.Palette[stage]
}

// NamedColor 解析 colornames 名称，未知名称返回洋红占位色
func NamedColor(name string) color.RGBA {
	if c, ok := colornames.Map[strings.ToLower(name)]; ok {
		return c
	}
	return colornames.Magenta
}
