package game

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// EbitenMixer 基于 ebiten audio.Context 的播放后端
// 每个 Voice 对应一个 audio.Player，停止时关闭
type EbitenMixer struct {
	ctx *audio.Context
}

// NewEbitenMixer 创建播放后端
func NewEbitenMixer(ctx *audio.Context) *EbitenMixer {
	return &EbitenMixer{ctx: ctx}
}

// NewVoice 为片段创建播放器
func (m *EbitenMixer) NewVoice(clip *Clip, loops int) (Voice, error) {
	if clip == nil || len(clip.PCM) == 0 {
		return nil, fmt.Errorf("empty clip")
	}

	if loops < 0 {
		loop := audio.NewInfiniteLoop(bytes.NewReader(clip.PCM), int64(len(clip.PCM)))
		player, err := m.ctx.NewPlayer(loop)
		if err != nil {
			return nil, fmt.Errorf("failed to create audio player for %s: %w", clip.Path, err)
		}
		return &ebitenVoice{player: player}, nil
	}

	data := clip.PCM
	if loops > 0 {
		data = bytes.Repeat(clip.PCM, loops+1)
	}
	return &ebitenVoice{player: m.ctx.NewPlayerFromBytes(data)}, nil
}

type ebitenVoice struct {
	player  *audio.Player
	stopped bool
}

func (v *ebitenVoice) Play() {
	v.player.Play()
}

func (v *ebitenVoice) Stop() {
	if v.stopped {
		return
	}
	v.stopped = true
	v.player.Pause()
	_ = v.player.Close()
}

func (v *ebitenVoice) IsPlaying() bool {
	return !v.stopped && v.player.IsPlaying()
}

func (v *ebitenVoice) SetVolume(volume float64) {
	v.player.SetVolume(volume)
}
