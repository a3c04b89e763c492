package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// SoundCategory 声音类别标签
// 注册时显式标注，运行时不再通过键名子串推断优先级
type SoundCategory string

const (
	CategoryAnnouncement SoundCategory = "announcement"
	CategoryPlayerVoice  SoundCategory = "player_voice"
	CategorySquadronShot SoundCategory = "squadron_shot"
	CategoryPowerup      SoundCategory = "powerup"
	CategoryAmbientHum   SoundCategory = "ambient_hum"
	CategoryDeath        SoundCategory = "death"
	CategoryShield       SoundCategory = "shield"
	CategoryAlienFire    SoundCategory = "alien_fire"
	CategoryPlayerShot   SoundCategory = "player_shot"
	CategoryBulletHit    SoundCategory = "bullet_hit"
	CategoryMusic        SoundCategory = "music"
)

// AllCategories 所有合法类别
var AllCategories = []SoundCategory{
	CategoryAnnouncement,
	CategoryPlayerVoice,
	CategorySquadronShot,
	CategoryPowerup,
	CategoryAmbientHum,
	CategoryDeath,
	CategoryShield,
	CategoryAlienFire,
	CategoryPlayerShot,
	CategoryBulletHit,
	CategoryMusic,
}

// IsMusic 是否受“音乐开关”控制
func (c SoundCategory) IsMusic() bool {
	return c == CategoryMusic
}

// IsLongRunning 无限循环播放时是否按名称追踪（可单独淡出）
func (c SoundCategory) IsLongRunning() bool {
	return c == CategoryMusic || c == CategoryAmbientHum
}

// SoundEntry 声音注册项
type SoundEntry struct {
	Category SoundCategory `yaml:"category"`
	Species  string        `yaml:"species"` // 死亡音效按物种细分优先级
	Clips    []string      `yaml:"clips"`   // 多个录音变体，播放时随机选择
	Volume   float64       `yaml:"volume"`  // 相对音量，默认 1
}

// AudioConfig audio.yaml 结构
type AudioConfig struct {
	FadeOutMs    int64                 `yaml:"fadeOutMs"`    // 长时声道淡出时长
	Priorities   map[SoundCategory]int `yaml:"priorities"`   // 数值越小越重要
	DeathSubRank map[string]int        `yaml:"deathSubRank"` // 物种 -> 死亡优先级修正
	Sounds       map[string]SoundEntry `yaml:"sounds"`       // 键 -> 注册项
}

// DefaultPriorities 默认优先级表
// announcement > player_voice > squadron_shot > powerup > ambient_hum > death > shield > alien_fire > player_shot > bullet_hit
func DefaultPriorities() map[SoundCategory]int {
	return map[SoundCategory]int{
		CategoryMusic:        0,
		CategoryAnnouncement: 1,
		CategoryPlayerVoice:  2,
		CategorySquadronShot: 3,
		CategoryPowerup:      3,
		CategoryAmbientHum:   4,
		CategoryDeath:        5,
		CategoryShield:       6,
		CategoryAlienFire:    7,
		CategoryPlayerShot:   7,
		CategoryBulletHit:    8,
	}
}

// ParseAudioConfig 解析 audio.yaml
func ParseAudioConfig(data []byte) (*AudioConfig, error) {
	var cfg AudioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse audio YAML: %w", err)
	}
	applyAudioDefaults(&cfg)
	if err := validateAudioConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid audio config: %w", err)
	}
	return &cfg, nil
}

// applyAudioDefaults 缺省优先级使用默认表
func applyAudioDefaults(cfg *AudioConfig) {
	if cfg.FadeOutMs == 0 {
		cfg.FadeOutMs = 1000
	}
	defaults := DefaultPriorities()
	if cfg.Priorities == nil {
		cfg.Priorities = defaults
	} else {
		for cat, p := range defaults {
			if _, ok := cfg.Priorities[cat]; !ok {
				cfg.Priorities[cat] = p
			}
		}
	}
	if cfg.DeathSubRank == nil {
		cfg.DeathSubRank = map[string]int{}
	}
	if cfg.Sounds == nil {
		cfg.Sounds = map[string]SoundEntry{}
	}
	for key, entry := range cfg.Sounds {
		if entry.Volume == 0 {
			entry.Volume = 1
			cfg.Sounds[key] = entry
		}
	}
}

// validateAudioConfig 验证类别标签与优先级
func validateAudioConfig(cfg *AudioConfig) error {
	if cfg.FadeOutMs < 0 {
		return fmt.Errorf("fadeOutMs cannot be negative")
	}
	for cat, p := range cfg.Priorities {
		if !validCategory(cat) {
			return fmt.Errorf("priorities: unknown category %q", cat)
		}
		if p < 0 {
			return fmt.Errorf("priorities: %q must be >= 0, got %d", cat, p)
		}
	}
	for _, key := range cfg.SoundKeys() {
		entry := cfg.Sounds[key]
		if !validCategory(entry.Category) {
			return fmt.Errorf("sound %q: unknown category %q", key, entry.Category)
		}
		if entry.Volume < 0 || entry.Volume > 1 {
			return fmt.Errorf("sound %q: volume must be in [0, 1]", key)
		}
	}
	return nil
}

func validCategory(cat SoundCategory) bool {
	for _, c := range AllCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// PriorityOf 返回注册项的优先级
// 死亡音效叠加物种修正，结果不小于 0
func (cfg *AudioConfig) PriorityOf(entry SoundEntry) int {
	p := cfg.Priorities[entry.Category]
	if entry.Category == CategoryDeath && entry.Species != "" {
		p += cfg.DeathSubRank[entry.Species]
	}
	if p < 0 {
		p = 0
	}
	return p
}

// SoundKeys 返回排序后的声音键
func (cfg *AudioConfig) SoundKeys() []string {
	keys := make([]string, 0, len(cfg.Sounds))
	for k := range cfg.Sounds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
