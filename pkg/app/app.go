// Package app 提供游戏应用的核心包装器
//
// 该包把会话接到 Ebitengine 的主循环上：每个 tick 读取一次时钟，
// 把按键边沿转换为玩家指令，推进会话，再把实体与 HUD 画到屏幕上。
package app

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/game"
	"github.com/decker502/invaders/pkg/input"
	"github.com/decker502/invaders/pkg/timing"
)

// Config 定义应用启动配置
type Config struct {
	ScreenWidth  int
	ScreenHeight int
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg       Config
	session   *game.Session
	clock     timing.Clock
	audio     *game.AudioManager
	settings  *game.SettingsManager
	scores    *game.HighScoreTable
	resources *game.ResourceManager
	log       *zap.Logger

	renderer *screenRenderer
	commands []input.Command
	started  bool
	recorded bool
	rank     int
}

// NewApp 创建游戏应用
//
// audio、settings、scores、resources 都可以为 nil。
func NewApp(cfg Config, session *game.Session, clock timing.Clock, audio *game.AudioManager, settings *game.SettingsManager, scores *game.HighScoreTable, resources *game.ResourceManager, log *zap.Logger) (*App, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if clock == nil {
		clock = timing.NewSystemClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		cfg:       cfg,
		session:   session,
		clock:     clock,
		audio:     audio,
		settings:  settings,
		scores:    scores,
		resources: resources,
		log:       log.Named("app"),
		renderer:  &screenRenderer{resources: resources, missing: make(map[string]bool)},
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次；时钟在这里只读取一次
func (a *App) Update() error {
	now := a.clock.Now()
	if !a.started {
		if err := a.session.Start(now); err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		a.started = true
	}

	a.handleSystemKeys()

	a.commands = input.Poll(a.session.Players(), a.commands[:0])
	for _, cmd := range a.commands {
		a.session.DispatchInput(cmd)
	}
	a.session.Update(now)

	if a.session.GameOver() && !a.recorded {
		a.recordScore()
	}
	return nil
}

// handleSystemKeys F11 全屏，M 音乐开关，N 音效开关
func (a *App) handleSystemKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		if a.settings != nil {
			a.settings.SetFullscreen(fullscreen)
			a.saveSettings()
		}
	}
	if a.audio == nil || a.settings == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.audio.SetMusicEnabled(!a.settings.GetSettings().MusicEnabled)
		a.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.settings.SetSoundEnabled(!a.settings.GetSettings().SoundEnabled)
		a.saveSettings()
	}
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		a.log.Warn("failed to save settings", zap.Error(err))
	}
}

// recordScore 会话结束时把合计分数写入最高分表
func (a *App) recordScore() {
	a.recorded = true
	if a.scores == nil {
		return
	}
	hud := a.session.HUD()
	total := 0
	for _, s := range hud.Scores {
		total += s
	}
	a.rank = a.scores.Submit(game.HighScoreEntry{
		Score:    total,
		Players:  len(hud.Scores),
		Waves:    hud.Wave,
		Victory:  hud.State == game.SessionVictory,
		Recorded: time.Now(),
	})
	if err := a.scores.Save(); err != nil {
		a.log.Warn("failed to save high scores", zap.Error(err))
	}
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	a.renderer.screen = screen
	a.session.Render(a.renderer)
	ebitenutil.DebugPrint(screen, a.hudText())
}

func (a *App) hudText() string {
	hud := a.session.HUD()
	var b strings.Builder
	fmt.Fprintf(&b, "WAVE %d/%d", hud.Wave, hud.Waves)
	for i, s := range hud.Scores {
		fmt.Fprintf(&b, "   P%d %06d", i+1, s)
	}
	if a.scores != nil {
		fmt.Fprintf(&b, "   HI %06d", a.scores.Best())
	}
	b.WriteByte('\n')

	switch hud.State {
	case game.SessionBetweenWaves:
		fmt.Fprintf(&b, "NEXT WAVE IN %.1fs", float64(hud.ResumeIn)/1000)
	case game.SessionVictory:
		b.WriteString("ALL WAVES CLEARED")
	case game.SessionDefeat:
		b.WriteString("GAME OVER")
	}
	if a.recorded && a.rank > 0 {
		fmt.Fprintf(&b, "   NEW HIGH SCORE #%d", a.rank)
	}
	return b.String()
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.ScreenWidth, a.cfg.ScreenHeight
}

// Close 停止声音并释放会话
func (a *App) Close() {
	a.session.Close()
}

// screenRenderer 把渲染项画到 ebiten 屏幕
// 帧图片存在时按碰撞盒缩放绘制，否则画纯色矩形
type screenRenderer struct {
	screen    *ebiten.Image
	resources *game.ResourceManager
	missing   map[string]bool // 不存在的帧图片，只检查一次
}

func (r *screenRenderer) DrawItem(item game.RenderItem) {
	if img := r.frameImage(item.Frame); img != nil {
		bounds := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(item.Width/float64(bounds.Dx()), item.Height/float64(bounds.Dy()))
		op.GeoM.Translate(item.X, item.Y)
		r.screen.DrawImage(img, op)
		return
	}
	vector.DrawFilledRect(r.screen, float32(item.X), float32(item.Y), float32(item.Width), float32(item.Height), item.Color, false)
}

func (r *screenRenderer) frameImage(frame string) *ebiten.Image {
	if frame == "" || r.resources == nil {
		return nil
	}
	path := "images/" + frame + ".png"
	if img := r.resources.GetImage(path); img != nil {
		return img
	}
	if r.missing[path] {
		return nil
	}
	if !r.resources.Exists(path) {
		r.missing[path] = true
		return nil
	}
	return r.resources.LoadImage(path)
}
