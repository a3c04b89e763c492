package config

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/image/colornames"
)

func TestFireProfileFor(t *testing.T) {
	table, err := ParseSpeciesTable([]byte(testSpeciesYAML))
	if err != nil {
		t.Fatalf("ParseSpeciesTable failed: %v", err)
	}

	fp, err := table.FireProfileFor(SpeciesLevel2, 1)
	if err != nil {
		t.Fatalf("FireProfileFor failed: %v", err)
	}
	if fp.MaxBullets != 2 || fp.MinIntervalMs != 500 || fp.MaxIntervalMs != 800 {
		t.Errorf("unexpected profile: %+v", fp)
	}
	if fp.BulletSpeed != 240 {
		t.Errorf("expected default bullet speed 240, got %v", fp.BulletSpeed)
	}

	if _, err := table.FireProfileFor("ufo", 1); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("expected ErrUnknownSpecies, got %v", err)
	}
	if _, err := table.FireProfileFor(SpeciesLevel2, 3); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
	if table.Fires(SpeciesLevel3) {
		t.Error("level3 has no fire profiles and should not fire")
	}
}

func TestParseSpeciesTableErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(string) string
		errContains string
	}{
		{
			name:        "missing boss",
			mutate:      func(s string) string { return strings.Replace(s, "  boss:", "  boss2:", 1) },
			errContains: `"boss" is required`,
		},
		{
			name: "reversed spawn interval",
			mutate: func(s string) string {
				return strings.Replace(s, "{ minIntervalMs: 1000, maxIntervalMs: 2000, activationDelayMs: 0 }", "{ minIntervalMs: 3000, maxIntervalMs: 2000 }", 1)
			},
			errContains: "spawn interval",
		},
		{
			name:        "threshold not below visible rows",
			mutate:      func(s string) string { return strings.Replace(s, "reinforcementThreshold: 1", "reinforcementThreshold: 4", 1) },
			errContains: "reinforcementThreshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSpeciesTable([]byte(tt.mutate(testSpeciesYAML)))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestParseShieldConfig(t *testing.T) {
	cfg, err := ParseShieldConfig([]byte(testShieldYAML))
	if err != nil {
		t.Fatalf("ParseShieldConfig failed: %v", err)
	}
	if cfg.Stages != 3 {
		t.Errorf("expected 3 stages, got %d", cfg.Stages)
	}
	if cfg.StageColor(0) != colornames.Green {
		t.Errorf("stage 0 should be green, got %v", cfg.StageColor(0))
	}
	// 越界钳制到最后一个颜色
	if cfg.StageColor(10) != colornames.Red {
		t.Errorf("out-of-range stage should clamp to red, got %v", cfg.StageColor(10))
	}
	if cfg.StageColor(-1) != colornames.Green {
		t.Errorf("negative stage should clamp to green, got %v", cfg.StageColor(-1))
	}

	if _, err := ParseShieldConfig([]byte("stages: 2\nstageColors: [red]\n")); err == nil {
		t.Error("expected error for color count mismatch")
	}
	if _, err := ParseShieldConfig([]byte("stages: 1\nstageColors: [notacolor]\n")); err == nil {
		t.Error("expected error for unknown color name")
	}
	if _, err := ParseShieldConfig([]byte("stages: 2\nstageColors: [red, blue]\nrepairCapIndex: 2\n")); err == nil {
		t.Error("expected error for repair cap out of range")
	}
}

func TestAudioPriorities(t *testing.T) {
	cfg, err := ParseAudioConfig([]byte(`
deathSubRank:
  boss: -1
  level1: 1
sounds:
  death_boss:
    category: death
    species: boss
    clips: [a.wav]
  death_level1:
    category: death
    species: level1
    clips: [b.wav]
  announce:
    category: announcement
    clips: [c.wav]
`))
	if err != nil {
		t.Fatalf("ParseAudioConfig failed: %v", err)
	}

	base := cfg.Priorities[CategoryDeath]
	if got := cfg.PriorityOf(cfg.Sounds["death_boss"]); got != base-1 {
		t.Errorf("boss death priority: expected %d, got %d", base-1, got)
	}
	if got := cfg.PriorityOf(cfg.Sounds["death_level1"]); got != base+1 {
		t.Errorf("level1 death priority: expected %d, got %d", base+1, got)
	}
	if got := cfg.PriorityOf(cfg.Sounds["announce"]); got != 1 {
		t.Errorf("announcement priority: expected 1, got %d", got)
	}
	if cfg.Sounds["announce"].Volume != 1 {
		t.Errorf("expected default volume 1, got %v", cfg.Sounds["announce"].Volume)
	}

	keys := cfg.SoundKeys()
	if len(keys) != 3 || keys[0] != "announce" {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}

func TestAudioRejectsUnknownCategory(t *testing.T) {
	_, err := ParseAudioConfig([]byte(`
sounds:
  shield_death:
    category: shield_death
    clips: [x.wav]
`))
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCategoryFlags(t *testing.T) {
	if !CategoryMusic.IsLongRunning() || !CategoryAmbientHum.IsLongRunning() {
		t.Error("music and ambient hum should be long-running")
	}
	if CategoryDeath.IsLongRunning() {
		t.Error("death should not be long-running")
	}
	if !CategoryMusic.IsMusic() || CategoryAmbientHum.IsMusic() {
		t.Error("only music category is gated by the music switch")
	}
}

func TestParseGameConfig(t *testing.T) {
	cfg, err := ParseGameConfig([]byte(`
[game]
players = 3
seed = 42

[[players]]
left = "Q"
right = "E"
fire = "W"
`))
	if err != nil {
		t.Fatalf("ParseGameConfig failed: %v", err)
	}
	if cfg.Game.Players != 3 || cfg.Game.Seed != 42 {
		t.Errorf("unexpected game section: %+v", cfg.Game)
	}
	if cfg.Game.TPS != 60 || cfg.Audio.Channels != 8 {
		t.Errorf("defaults not kept: tps=%d channels=%d", cfg.Game.TPS, cfg.Audio.Channels)
	}
	if len(cfg.Players) != 3 {
		t.Fatalf("expected bindings for 3 players, got %d", len(cfg.Players))
	}
	if cfg.Players[0].Left != "Q" {
		t.Errorf("explicit binding lost: %+v", cfg.Players[0])
	}
	// 缺少的绑定按位置补齐默认值
	if cfg.Players[2] != DefaultBindings()[2] {
		t.Errorf("expected default binding for player 3, got %+v", cfg.Players[2])
	}
}

func TestParseGameConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"too many players", "[game]\nplayers = 5\n"},
		{"zero channels", "[audio]\nchannels = 0\n"},
		{"bad tps", "[game]\ntps = -1\n"},
		{"broken toml", "[game\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGameConfig([]byte(tt.toml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestApplyPlayerCount 命令行覆盖人数后补齐绑定
func TestApplyPlayerCount(t *testing.T) {
	cfg := DefaultGameConfig()
	cfg.Players = cfg.Players[:1]
	cfg.Game.Players = 2
	if err := cfg.ApplyPlayerCount(); err != nil {
		t.Fatalf("ApplyPlayerCount failed: %v", err)
	}
	if len(cfg.Players) != 2 || cfg.Players[1] != DefaultBindings()[1] {
		t.Errorf("expected default binding for player 2, got %+v", cfg.Players)
	}

	cfg.Game.Players = MaxPlayers + 1
	if err := cfg.ApplyPlayerCount(); err == nil {
		t.Error("expected error for too many players")
	}
}

func TestDefaultScaler(t *testing.T) {
	s := DefaultScaler{Config: ScalingConfig{
		IntervalReductionPerPlayer: 0.5,
		FleetSpeedPerPlayer:        0.25,
		RowsPerPlayer:              2,
		QuotaPerPlayer:             map[string]int{SpeciesLevel3: 1},
	}}

	if got := s.ScaleInterval(SpeciesLevel2, 3000, 3); got != 1500 {
		t.Errorf("interval: expected 1500, got %d", got)
	}
	if got := s.ScaleInterval(SpeciesLevel2, 3000, 1); got != 3000 {
		t.Errorf("single player interval should be unchanged, got %d", got)
	}
	if got := s.ScaleSpeed(40, 3); got != 60 {
		t.Errorf("speed: expected 60, got %v", got)
	}
	if got := s.ScaleQuota(SpeciesLevel1, 0, 4, 2); got != 6 {
		t.Errorf("rows: expected 6, got %d", got)
	}
	if got := s.ScaleQuota(SpeciesLevel3, 0, 4, 3); got != 6 {
		t.Errorf("level3 quota: expected 6, got %d", got)
	}
	if got := s.ScaleQuota(SpeciesLevel4, 0, 4, 3); got != 4 {
		t.Errorf("level4 has no increment, expected 4, got %d", got)
	}
}
