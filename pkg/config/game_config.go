package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// GameConfig 运行时配置（TOML）
// 只描述运行环境：人数、帧率、窗口、声道池与日志；游戏内容数据见 Content
type GameConfig struct {
	Game    GameSection      `toml:"game"`
	Audio   AudioSection     `toml:"audio"`
	Logging LoggingConfig    `toml:"logging"`
	Players []PlayerBindings `toml:"players"`
}

// GameSection 基本运行参数
type GameSection struct {
	Players      int    `toml:"players"`       // 玩家人数 1..MaxPlayers
	TPS          int    `toml:"tps"`           // 目标 tick 频率
	ScreenWidth  int    `toml:"screen_width"`  // 逻辑屏幕宽度（仅用于 UI 摆放）
	ScreenHeight int    `toml:"screen_height"` // 逻辑屏幕高度
	ContentDir   string `toml:"content_dir"`   // 内容 YAML 目录，空表示使用内嵌 data/
	AssetsDir    string `toml:"assets_dir"`    // 图片与音频目录
	ScriptsDir   string `toml:"scripts_dir"`   // Lua 难度脚本目录，可不存在
	WeaponLevel  int    `toml:"weapon_level"`  // 玩家武器等级（选择 player 开火档位）
	Seed         int64  `toml:"seed"`          // 随机种子，0 表示按时间播种
}

// AudioSection 音频输出参数
type AudioSection struct {
	SampleRate int `toml:"sample_rate"`
	Channels   int `toml:"channels"` // 固定声道池容量
}

// LoggingConfig 日志参数
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" 或 "console"
}

// PlayerBindings 单个玩家的按键绑定（ebiten 按键名）
type PlayerBindings struct {
	Left    string `toml:"left"`
	Right   string `toml:"right"`
	Fire    string `toml:"fire"`
	Confirm string `toml:"confirm"`
}

// MaxPlayers 同屏最大玩家数
const MaxPlayers = 4

// DefaultGameConfig 返回默认运行时配置
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Game: GameSection{
			Players:      1,
			TPS:          60,
			ScreenWidth:  800,
			ScreenHeight: 600,
			AssetsDir:    "assets",
			ScriptsDir:   "scripts",
			WeaponLevel:  1,
		},
		Audio: AudioSection{
			SampleRate: 48000,
			Channels:   8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Players: DefaultBindings(),
	}
}

// DefaultBindings 默认按键：1P 方向键，2P WASD，3P IJKL，4P 小键盘
func DefaultBindings() []PlayerBindings {
	return []PlayerBindings{
		{Left: "ArrowLeft", Right: "ArrowRight", Fire: "Space", Confirm: "Enter"},
		{Left: "A", Right: "D", Fire: "W", Confirm: "E"},
		{Left: "J", Right: "L", Fire: "I", Confirm: "O"},
		{Left: "Numpad4", Right: "Numpad6", Fire: "Numpad8", Confirm: "NumpadEnter"},
	}
}

// LoadGameConfig 从 TOML 文件加载运行时配置
// 文件中未出现的字段保留默认值
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig 解析 TOML 文本
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := DefaultGameConfig()
	cfg.Players = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyGameDefaults(cfg)
	if err := validateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyPlayerCount 命令行覆盖人数后重新补齐绑定并验证
func (cfg *GameConfig) ApplyPlayerCount() error {
	applyGameDefaults(cfg)
	if err := validateGameConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// applyGameDefaults 为缺失的按键绑定补齐默认值
func applyGameDefaults(cfg *GameConfig) {
	defaults := DefaultBindings()
	for len(cfg.Players) < cfg.Game.Players && len(cfg.Players) < len(defaults) {
		cfg.Players = append(cfg.Players, defaults[len(cfg.Players)])
	}
	if cfg.Game.WeaponLevel == 0 {
		cfg.Game.WeaponLevel = 1
	}
}

// validateGameConfig 验证运行时配置
func validateGameConfig(cfg *GameConfig) error {
	if cfg.Game.Players < 1 || cfg.Game.Players > MaxPlayers {
		return fmt.Errorf("game.players must be between 1 and %d, got %d", MaxPlayers, cfg.Game.Players)
	}
	if cfg.Game.TPS <= 0 {
		return fmt.Errorf("game.tps must be positive, got %d", cfg.Game.TPS)
	}
	if cfg.Game.ScreenWidth <= 0 || cfg.Game.ScreenHeight <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", cfg.Game.ScreenWidth, cfg.Game.ScreenHeight)
	}
	if cfg.Audio.Channels < 1 {
		return fmt.Errorf("audio.channels must be at least 1, got %d", cfg.Audio.Channels)
	}
	if cfg.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", cfg.Audio.SampleRate)
	}
	if len(cfg.Players) < cfg.Game.Players {
		return fmt.Errorf("%d players configured but only %d key binding sets", cfg.Game.Players, len(cfg.Players))
	}
	for i, b := range cfg.Players[:cfg.Game.Players] {
		if b.Left == "" || b.Right == "" || b.Fire == "" {
			return fmt.Errorf("players[%d]: left, right and fire bindings are required", i)
		}
	}
	return nil
}
