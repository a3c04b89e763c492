package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/app"
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/embedded"
	"github.com/decker502/invaders/pkg/game"
	"github.com/decker502/invaders/pkg/input"
	"github.com/decker502/invaders/pkg/scripting"
	"github.com/decker502/invaders/pkg/timing"
)

const appName = "invaders"

func main() {
	configPath := flag.String("config", "config/game.toml", "runtime config (TOML)")
	players := flag.Int("players", 0, "number of players, overrides [game].players")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *players, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "invaders:", err)
		os.Exit(1)
	}
}

func run(configPath string, players int, verbose bool) error {
	embedded.Init(dataFS)

	cfg, err := loadGameConfig(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Warn("persistent storage unavailable, settings will not be saved", zap.Error(err))
		store = nil
	}
	settings := game.NewSettingsManager(store, log)
	scores := game.NewHighScoreTable(store, log)

	// 人数优先级：命令行 > 上次保存的选择 > 配置文件
	if players > 0 {
		if err := settings.SetPlayers(players); err != nil {
			return err
		}
		if err := settings.Save(); err != nil {
			log.Warn("failed to save settings", zap.Error(err))
		}
	}
	if n := settings.PlayerCount(cfg.Game.Players); n != cfg.Game.Players {
		cfg.Game.Players = n
		if err := cfg.ApplyPlayerCount(); err != nil {
			return err
		}
	}

	content, err := loadContent(cfg.Game.ContentDir)
	if err != nil {
		return err
	}

	engine, err := scripting.NewEngine(cfg.Game.ScriptsDir, config.DefaultScaler{Config: content.Species.Scaling}, log)
	if err != nil {
		return err
	}
	scaled, err := content.ScaleForPlayers(cfg.Game.Players, engine)
	engine.Close()
	if err != nil {
		return fmt.Errorf("scale content: %w", err)
	}

	bindings, err := input.ParseBindings(cfg.Players[:cfg.Game.Players])
	if err != nil {
		return fmt.Errorf("key bindings: %w", err)
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	audioContext := audio.NewContext(cfg.Audio.SampleRate)
	resources := game.NewResourceManager(os.DirFS(cfg.Game.AssetsDir), cfg.Audio.SampleRate, log)
	audioManager := game.NewAudioManager(scaled.Audio, game.NewEbitenMixer(audioContext), settings, settings.ChannelCount(cfg.Audio.Channels), rng, log)
	audioManager.LoadRegistry(resources)

	session, err := game.NewSession(scaled, bindings, cfg.Game.WeaponLevel,
		float64(cfg.Game.ScreenWidth), float64(cfg.Game.ScreenHeight), audioManager, rng, log)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	a, err := app.NewApp(app.Config{ScreenWidth: cfg.Game.ScreenWidth, ScreenHeight: cfg.Game.ScreenHeight},
		session, timing.NewSystemClock(), audioManager, settings, scores, resources, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ebiten.SetWindowSize(cfg.Game.ScreenWidth, cfg.Game.ScreenHeight)
	ebiten.SetWindowTitle("Invaders")
	ebiten.SetTPS(cfg.Game.TPS)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	log.Info("starting game",
		zap.Int("players", cfg.Game.Players),
		zap.Int("waves", scaled.Waves.Len()),
		zap.Int64("seed", seed))

	// This will call Update() and Draw() repeatedly until the window is closed
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}

// loadGameConfig 配置文件不存在时使用默认配置
func loadGameConfig(path string) (*config.GameConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.DefaultGameConfig(), nil
	}
	return config.LoadGameConfig(path)
}

// loadContent dir 为空时加载内嵌的 data/
func loadContent(dir string) (*config.Content, error) {
	if dir != "" {
		return config.LoadContent(os.DirFS(dir), ".")
	}
	fsys, err := embedded.FS()
	if err != nil {
		return nil, err
	}
	return config.LoadContent(fsys, embedded.DataDir)
}
