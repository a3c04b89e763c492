package game

import (
	"bytes"
	"encoding/binary"
	"testing"
	"testing/fstest"
)

// buildAUFile 构造 16 位 PCM 的 .au 文件
func buildAUFile(rate uint32, channels uint32, samples []int16) []byte {
	var buf bytes.Buffer
	header := []uint32{0x2e736e64, 24, uint32(len(samples) * 2), 3, rate, channels}
	for _, v := range header {
		binary.Write(&buf, binary.BigEndian, v)
	}
	for _, s := range samples {
		binary.Write(&buf, binary.BigEndian, s)
	}
	return buf.Bytes()
}

func newTestResourceFS() fstest.MapFS {
	return fstest.MapFS{
		"sounds/hit.au":     {Data: buildAUFile(48000, 2, []int16{100, -100, 200, -200})},
		"sounds/mono.au":    {Data: buildAUFile(48000, 1, []int16{300, 400})},
		"sounds/slow.au":    {Data: buildAUFile(8000, 1, []int16{1, 2, 3, 4, 5, 6, 7, 8})},
		"sounds/broken.au":  {Data: []byte("not an au file")},
		"sounds/notes.txt":  {Data: []byte("hello")},
		"sounds/broken.wav": {Data: []byte("RIFF")},
	}
}

func TestNewResourceManager(t *testing.T) {
	rm := NewResourceManager(newTestResourceFS(), 48000, nil)
	if rm == nil {
		t.Fatal("NewResourceManager returned nil")
	}
	if rm.SampleRate() != 48000 {
		t.Errorf("SampleRate = %d, want 48000", rm.SampleRate())
	}
	if !rm.Exists("sounds/hit.au") || rm.Exists("images/none.png") {
		t.Error("Exists should reflect the asset file system")
	}
	if rm.GetImage("missing.png") != nil {
		t.Error("GetImage should return nil for images never loaded")
	}
}

// TestLoadClipAU 采样率一致时直接转换为小端立体声
func TestLoadClipAU(t *testing.T) {
	rm := NewResourceManager(newTestResourceFS(), 48000, nil)

	clip := rm.LoadClip("sounds/hit.au")
	if clip == nil {
		t.Fatal("LoadClip returned nil for a valid .au file")
	}
	if clip.Path != "sounds/hit.au" {
		t.Errorf("Path = %q", clip.Path)
	}
	if len(clip.PCM) != 8 {
		t.Fatalf("PCM length = %d, want 8", len(clip.PCM))
	}
	if v := int16(binary.LittleEndian.Uint16(clip.PCM[2:])); v != -100 {
		t.Errorf("second sample = %d, want -100", v)
	}

	mono := rm.LoadClip("sounds/mono.au")
	if mono == nil || len(mono.PCM) != 8 {
		t.Fatalf("mono clip should expand to 2 stereo frames, got %v", mono)
	}
}

// TestLoadClipResample 采样率不同时重采样到目标采样率
func TestLoadClipResample(t *testing.T) {
	rm := NewResourceManager(newTestResourceFS(), 48000, nil)
	clip := rm.LoadClip("sounds/slow.au")
	if clip == nil {
		t.Fatal("LoadClip returned nil")
	}
	if len(clip.PCM) == 0 || len(clip.PCM)%4 != 0 {
		t.Errorf("resampled PCM should be whole stereo frames, got %d bytes", len(clip.PCM))
	}
}

// TestLoadClipCaching 成功与失败都被缓存
func TestLoadClipCaching(t *testing.T) {
	fsys := newTestResourceFS()
	rm := NewResourceManager(fsys, 48000, nil)

	first := rm.LoadClip("sounds/hit.au")
	delete(fsys, "sounds/hit.au")
	if second := rm.LoadClip("sounds/hit.au"); second != first {
		t.Error("second LoadClip should return the cached clip")
	}

	if rm.LoadClip("sounds/missing.au") != nil {
		t.Fatal("missing clip should return nil")
	}
	fsys["sounds/missing.au"] = &fstest.MapFile{Data: buildAUFile(48000, 2, []int16{1, 1})}
	if rm.LoadClip("sounds/missing.au") != nil {
		t.Error("failed lookups are cached for the whole session")
	}
}

// TestLoadClipFailures 缺失、损坏与不支持的格式都返回 nil
func TestLoadClipFailures(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", "sounds/none.au"},
		{"corrupted au", "sounds/broken.au"},
		{"corrupted wav", "sounds/broken.wav"},
		{"unsupported extension", "sounds/notes.txt"},
	}

	rm := NewResourceManager(newTestResourceFS(), 48000, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if clip := rm.LoadClip(tt.path); clip != nil {
				t.Errorf("LoadClip(%s) = %v, want nil", tt.path, clip)
			}
		})
	}
}

// TestLoadClipNilFS 没有资源目录时所有片段缺失
func TestLoadClipNilFS(t *testing.T) {
	rm := NewResourceManager(nil, 48000, nil)
	if rm.LoadClip("sounds/hit.au") != nil {
		t.Error("nil fs should yield no clips")
	}
}

// TestLoadRegistry 只登记成功加载的片段
func TestLoadRegistry(t *testing.T) {
	rm := NewResourceManager(newTestResourceFS(), 48000, nil)
	cfg := newTestAudioConfig()
	hit := cfg.Sounds["bullet_hit"]
	hit.Clips = []string{"sounds/hit.au", "sounds/mono.au", "sounds/none.au"}
	cfg.Sounds["bullet_hit"] = hit
	shot := cfg.Sounds["player_shot"]
	shot.Clips = []string{"sounds/broken.au"}
	cfg.Sounds["player_shot"] = shot

	am := NewAudioManager(cfg, &fakeMixer{}, nil, 4, nil, nil)
	if n := am.LoadRegistry(rm); n != 2 {
		t.Errorf("LoadRegistry loaded %d clips, want 2", n)
	}
	if !am.HasSound("bullet_hit") {
		t.Error("bullet_hit should have clips")
	}
	if am.HasSound("player_shot") {
		t.Error("player_shot has only a broken clip")
	}
}
