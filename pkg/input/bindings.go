package input

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/invaders/pkg/config"
)

// KeyBindings 单个玩家的按键
// Confirm 可以不绑定（HasConfirm 为 false）
type KeyBindings struct {
	Left       ebiten.Key
	Right      ebiten.Key
	Fire       ebiten.Key
	Confirm    ebiten.Key
	HasConfirm bool
}

// ParseBindings 将配置中的按键名解析为 ebiten.Key
func ParseBindings(cfg []config.PlayerBindings) ([]KeyBindings, error) {
	out := make([]KeyBindings, len(cfg))
	for i, b := range cfg {
		var kb KeyBindings
		var err error
		if kb.Left, err = parseKey(b.Left); err != nil {
			return nil, fmt.Errorf("players[%d].left: %w", i, err)
		}
		if kb.Right, err = parseKey(b.Right); err != nil {
			return nil, fmt.Errorf("players[%d].right: %w", i, err)
		}
		if kb.Fire, err = parseKey(b.Fire); err != nil {
			return nil, fmt.Errorf("players[%d].fire: %w", i, err)
		}
		if b.Confirm != "" {
			if kb.Confirm, err = parseKey(b.Confirm); err != nil {
				return nil, fmt.Errorf("players[%d].confirm: %w", i, err)
			}
			kb.HasConfirm = true
		}
		out[i] = kb
	}
	return out, nil
}

func parseKey(name string) (ebiten.Key, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return k, nil
}

// Poll 读取本帧的按键边沿并转换为指令
// 只能在 ebiten 的 Update 中调用
func Poll(players []PlayerState, dst []Command) []Command {
	for i := range players {
		b := players[i].Bindings
		if inpututil.IsKeyJustPressed(b.Left) {
			dst = append(dst, Command{Player: i, Kind: MoveLeftStart})
		}
		if inpututil.IsKeyJustReleased(b.Left) {
			dst = append(dst, Command{Player: i, Kind: MoveLeftStop})
		}
		if inpututil.IsKeyJustPressed(b.Right) {
			dst = append(dst, Command{Player: i, Kind: MoveRightStart})
		}
		if inpututil.IsKeyJustReleased(b.Right) {
			dst = append(dst, Command{Player: i, Kind: MoveRightStop})
		}
		if inpututil.IsKeyJustPressed(b.Fire) {
			dst = append(dst, Command{Player: i, Kind: Fire})
		}
		if b.HasConfirm && inpututil.IsKeyJustPressed(b.Confirm) {
			dst = append(dst, Command{Player: i, Kind: Confirm})
		}
	}
	return dst
}
