package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	auformat "github.com/decker502/invaders/internal/audio"
)

// Clip 解码后的音频片段
// PCM 为 16 位小端立体声，采样率与音频上下文一致
type Clip struct {
	Path string
	PCM  []byte
}

// placeholderSize 缺失图片时的占位图边长
const placeholderSize = 16

// ResourceManager is responsible for centralized management of game assets.
// It loads images and audio clips from an fs.FS and caches them, so that each
// asset is decoded only once.
//
// Missing or corrupted assets never abort the game: LoadImage substitutes a
// solid-color placeholder and LoadClip returns nil, and both log a warning.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. Load everything from the game loop
// goroutine (or before it starts).
type ResourceManager struct {
	fsys       fs.FS
	sampleRate int
	log        *zap.Logger

	imageCache  map[string]*ebiten.Image
	clipCache   map[string]*Clip
	placeholder *ebiten.Image
}

// NewResourceManager creates a ResourceManager reading from fsys.
//
// Parameters:
//   - fsys: asset file system (usually os.DirFS(assetsDir))
//   - sampleRate: target sample rate; every clip is resampled to it
//   - log: logger, nil for none
func NewResourceManager(fsys fs.FS, sampleRate int, log *zap.Logger) *ResourceManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResourceManager{
		fsys:       fsys,
		sampleRate: sampleRate,
		log:        log.Named("resources"),
		imageCache: make(map[string]*ebiten.Image),
		clipCache:  make(map[string]*Clip),
	}
}

// LoadImage loads an image and caches it.
// On failure it returns a cached magenta placeholder and logs a warning.
func (rm *ResourceManager) LoadImage(p string) *ebiten.Image {
	if img, ok := rm.imageCache[p]; ok {
		return img
	}

	img, err := rm.decodeImage(p)
	if err != nil {
		rm.log.Warn("image unavailable, using placeholder", zap.String("path", p), zap.Error(err))
		img = rm.placeholderImage()
	}
	rm.imageCache[p] = img
	return img
}

func (rm *ResourceManager) decodeImage(p string) (*ebiten.Image, error) {
	if rm.fsys == nil {
		return nil, fs.ErrNotExist
	}
	f, err := rm.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", p, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", p, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

func (rm *ResourceManager) placeholderImage() *ebiten.Image {
	if rm.placeholder == nil {
		rm.placeholder = ebiten.NewImage(placeholderSize, placeholderSize)
		rm.placeholder.Fill(colornames.Magenta)
	}
	return rm.placeholder
}

// Exists reports whether p is present in the asset file system.
func (rm *ResourceManager) Exists(p string) bool {
	if rm.fsys == nil {
		return false
	}
	_, err := fs.Stat(rm.fsys, p)
	return err == nil
}

// GetImage returns a previously loaded image, or nil.
func (rm *ResourceManager) GetImage(p string) *ebiten.Image {
	return rm.imageCache[p]
}

// LoadClip loads an audio clip and caches it.
// Supported formats: .mp3, .ogg, .wav and Sun .au. Missing or undecodable clips
// return nil and log a warning; failures are cached so the warning appears once.
func (rm *ResourceManager) LoadClip(p string) *Clip {
	if clip, ok := rm.clipCache[p]; ok {
		return clip
	}

	clip, err := rm.decodeClip(p)
	if err != nil {
		rm.log.Warn("audio clip unavailable, skipping", zap.String("path", p), zap.Error(err))
		clip = nil
	}
	rm.clipCache[p] = clip
	return clip
}

func (rm *ResourceManager) decodeClip(p string) (*Clip, error) {
	if rm.fsys == nil {
		return nil, fs.ErrNotExist
	}
	data, err := fs.ReadFile(rm.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", p, err)
	}
	reader := bytes.NewReader(data)

	var stream io.Reader
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(rm.sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", p, err)
		}
		stream = s
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(rm.sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", p, err)
		}
		stream = s
	case ".wav":
		s, err := wav.DecodeWithSampleRate(rm.sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", p, err)
		}
		stream = s
	case ".au":
		s, err := auformat.DecodeAU(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode AU audio %s: %w", p, err)
		}
		stream = s
		if s.SampleRate() != rm.sampleRate {
			stream = audio.Resample(s, s.Length(), s.SampleRate(), rm.sampleRate)
		}
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav, .au)", ext)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio %s: %w", p, err)
	}
	return &Clip{Path: p, PCM: pcm}, nil
}

// SampleRate 目标采样率
func (rm *ResourceManager) SampleRate() int {
	return rm.sampleRate
}
