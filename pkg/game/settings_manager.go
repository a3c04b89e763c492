package game

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/decker502/invaders/pkg/config"
)

// MaxAudioChannels 玩家可选的声道池上限
const MaxAudioChannels = 32

// GameSettings 玩家偏好，跨会话保存
//
// Players 与 AudioChannels 为 0 表示沿用 config/game.toml 的值。
type GameSettings struct {
	MusicVolume   float64 `yaml:"musicVolume"`
	SoundVolume   float64 `yaml:"soundVolume"`
	MusicEnabled  bool    `yaml:"musicEnabled"`
	SoundEnabled  bool    `yaml:"soundEnabled"`
	AudioChannels int     `yaml:"audioChannels"` // 声道池容量
	Players       int     `yaml:"players"`       // 上次选择的玩家人数
	Fullscreen    bool    `yaml:"fullscreen"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		MusicVolume:  0.7,
		SoundVolume:  0.8,
		MusicEnabled: true,
		SoundEnabled: true,
	}
}

// normalize 把读入的值收回合法范围
func (gs *GameSettings) normalize() {
	gs.MusicVolume = clampVolume(gs.MusicVolume)
	gs.SoundVolume = clampVolume(gs.SoundVolume)
	gs.AudioChannels = clampInt(gs.AudioChannels, 0, MaxAudioChannels)
	gs.Players = clampInt(gs.Players, 0, config.MaxPlayers)
}

// SettingsManager 管理玩家偏好
// 存储不可用（gdata 为 nil）时只保存在内存中，Save 不做任何事
type SettingsManager struct {
	store    *gdata.Manager
	settings *GameSettings
	log      *zap.Logger
}

const (
	settingsObject   = "settings"
	settingsProperty = "preferences"
)

// NewSettingsManager 创建设置管理器并加载已保存的偏好
// 加载失败只记录警告，使用默认设置
func NewSettingsManager(store *gdata.Manager, log *zap.Logger) *SettingsManager {
	if log == nil {
		log = zap.NewNop()
	}
	sm := &SettingsManager{
		store:    store,
		settings: DefaultSettings(),
		log:      log.Named("settings"),
	}
	if err := sm.Load(); err != nil {
		sm.log.Warn("failed to load settings, using defaults", zap.Error(err))
	}
	return sm
}

// Load 读取已保存的偏好，缺失字段取默认值
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.store == nil || !sm.store.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.store.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.normalize()
	sm.settings = loaded
	sm.log.Debug("settings loaded",
		zap.Int("players", loaded.Players),
		zap.Int("audio_channels", loaded.AudioChannels))
	return nil
}

// Save 持久化当前偏好
func (sm *SettingsManager) Save() error {
	if sm.store == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.store.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	sm.log.Debug("settings saved")
	return nil
}

// GetSettings 当前设置（调用方不应直接修改）
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.settings.MusicEnabled = enabled
}

func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetPlayers 记住玩家人数，超出 [1, MaxPlayers] 返回错误
func (sm *SettingsManager) SetPlayers(n int) error {
	if n < 1 || n > config.MaxPlayers {
		return fmt.Errorf("player count %d out of range [1, %d]", n, config.MaxPlayers)
	}
	sm.settings.Players = n
	return nil
}

// SetAudioChannels 设置声道池容量，0 表示沿用配置文件
func (sm *SettingsManager) SetAudioChannels(n int) {
	sm.settings.AudioChannels = clampInt(n, 0, MaxAudioChannels)
}

// PlayerCount 返回保存的玩家人数，未保存过时返回 fallback
func (sm *SettingsManager) PlayerCount(fallback int) int {
	if sm.settings.Players > 0 {
		return sm.settings.Players
	}
	return fallback
}

// ChannelCount 返回声道池容量，未设置时返回 fallback
func (sm *SettingsManager) ChannelCount(fallback int) int {
	if sm.settings.AudioChannels > 0 {
		return sm.settings.AudioChannels
	}
	return fallback
}

func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
