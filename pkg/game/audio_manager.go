package game

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/timing"
)

// LoopForever 无限循环播放
const LoopForever = -1

// ChannelHandle 声道句柄，由 AudioManager 分配，单调递增不复用
type ChannelHandle int

// Voice 正在某个声道上播放的片段
type Voice interface {
	Play()
	Stop()
	IsPlaying() bool
	SetVolume(volume float64)
}

// Mixer 把片段放到新的 Voice 上
// loops: 0 播放一次，n 额外重复 n 次，LoopForever 无限循环
type Mixer interface {
	NewVoice(clip *Clip, loops int) (Voice, error)
}

// PlayOption Play 的可选参数
type PlayOption func(*playOptions)

type playOptions struct {
	priority    int
	hasPriority bool
}

// WithPriority 显式指定优先级，覆盖类别表
func WithPriority(priority int) PlayOption {
	return func(o *playOptions) {
		o.priority = priority
		o.hasPriority = true
	}
}

// channel 一个被占用的声道
type channel struct {
	handle   ChannelHandle
	key      string
	priority int
	voice    Voice
	volume   float64
	music    bool
	infinite bool
	named    bool

	fading bool
	fade   timing.Timer
}

// AudioManager 音频仲裁引擎
//
// 职责：
//   - 固定容量的声道池，记录 {声道: 优先级}
//   - 池满时抢占数值最大（最不重要）的声道，只有请求严格更重要时才抢占，否则丢弃请求
//   - 无限循环的长时声道（音乐、环境嗡鸣）按键名登记，Stop 时淡出而不是立即停止
//
// 所有操作在单个 tick 线程上执行，Play 期间没有重入。
// 声道不足或声音已关闭属于正常拒绝，不记日志。
type AudioManager struct {
	cfg      *config.AudioConfig
	mixer    Mixer
	settings *SettingsManager
	rng      *rand.Rand
	log      *zap.Logger

	capacity   int
	clips      map[string][]*Clip
	channels   map[ChannelHandle]*channel
	named      map[string]ChannelHandle
	nextHandle ChannelHandle
}

// NewAudioManager 创建音频仲裁引擎
//
// 参数：
//   - cfg: 声音注册表与优先级表
//   - mixer: 播放后端（游戏中为 EbitenMixer，测试中为假实现）
//   - settings: 音量与开关设置，可为 nil（使用默认设置）
//   - capacity: 声道池容量（至少 1）
func NewAudioManager(cfg *config.AudioConfig, mixer Mixer, settings *SettingsManager, capacity int, rng *rand.Rand, log *zap.Logger) *AudioManager {
	if log == nil {
		log = zap.NewNop()
	}
	if settings == nil {
		settings = NewSettingsManager(nil, log)
	}
	if capacity < 1 {
		capacity = 1
	}
	return &AudioManager{
		cfg:        cfg,
		mixer:      mixer,
		settings:   settings,
		rng:        rng,
		log:        log.Named("audio"),
		capacity:   capacity,
		clips:      make(map[string][]*Clip),
		channels:   make(map[ChannelHandle]*channel, capacity),
		named:      make(map[string]ChannelHandle),
		nextHandle: 1,
	}
}

// Register 为 key 登记片段变体，nil 片段被忽略
func (am *AudioManager) Register(key string, clips ...*Clip) {
	for _, c := range clips {
		if c != nil {
			am.clips[key] = append(am.clips[key], c)
		}
	}
}

// LoadRegistry 通过资源管理器加载注册表中的全部片段
// 缺失的文件由 ResourceManager 记录警告并跳过；返回成功加载的片段数
func (am *AudioManager) LoadRegistry(rm *ResourceManager) int {
	loaded := 0
	for _, key := range am.cfg.SoundKeys() {
		for _, path := range am.cfg.Sounds[key].Clips {
			if clip := rm.LoadClip(path); clip != nil {
				am.Register(key, clip)
				loaded++
			}
		}
	}
	am.log.Info("sound registry loaded", zap.Int("clips", loaded), zap.Int("keys", len(am.cfg.Sounds)))
	return loaded
}

// HasSound key 是否至少登记了一个片段
func (am *AudioManager) HasSound(key string) bool {
	return len(am.clips[key]) > 0
}

// Play 按仲裁规则播放 key
//
//  1. 音效关闭，或音乐类且音乐关闭：不播放
//  2. 优先级：显式参数，否则取注册表类别的优先级（死亡音效按物种细分）
//  3. 在登记的变体中均匀随机选一个；没有变体时不播放
//  4. 池满时尝试抢占
//  5. 在空闲声道播放并记录优先级
//
// 同一长时 key 已在播放（且未淡出）时直接返回原句柄。
func (am *AudioManager) Play(key string, loops int, opts ...PlayOption) (ChannelHandle, bool) {
	var o playOptions
	for _, opt := range opts {
		opt(&o)
	}

	entry, registered := am.cfg.Sounds[key]
	music := registered && entry.Category.IsMusic()
	settings := am.settings.GetSettings()
	if music && !settings.MusicEnabled {
		return 0, false
	}
	if !music && !settings.SoundEnabled {
		return 0, false
	}

	priority := o.priority
	if !o.hasPriority {
		if !registered {
			return 0, false
		}
		priority = am.cfg.PriorityOf(entry)
	}

	variants := am.clips[key]
	if len(variants) == 0 {
		return 0, false
	}

	infinite := loops < 0
	longRunning := infinite && registered && entry.Category.IsLongRunning()
	if longRunning {
		if h, ok := am.named[key]; ok {
			if ch := am.channels[h]; ch != nil && !ch.fading && ch.voice.IsPlaying() {
				return h, true
			}
			// 淡出中或已结束的旧声道先让出位置，重启不受池容量影响
			am.hardStop(h)
		}
	}

	am.reap()
	if len(am.channels) >= am.capacity && !am.preempt(priority) {
		return 0, false
	}

	clip := variants[am.intn(len(variants))]
	voice, err := am.mixer.NewVoice(clip, loops)
	if err != nil {
		am.log.Warn("failed to start voice", zap.String("key", key), zap.String("clip", clip.Path), zap.Error(err))
		return 0, false
	}

	volume := 1.0
	if registered {
		volume = entry.Volume
	}
	ch := &channel{
		handle:   am.nextHandle,
		key:      key,
		priority: priority,
		voice:    voice,
		volume:   volume,
		music:    music,
		infinite: infinite,
		named:    longRunning,
	}
	am.nextHandle++

	voice.SetVolume(am.effectiveVolume(ch))
	voice.Play()
	am.channels[ch.handle] = ch
	if longRunning {
		am.named[key] = ch.handle
	}
	return ch.handle, true
}

// preempt 池满时停止最不重要的声道
// 只有该声道的优先级数值严格大于请求时才抢占；并列时选较早的声道
func (am *AudioManager) preempt(priority int) bool {
	var victim *channel
	for _, ch := range am.channels {
		if victim == nil || ch.priority > victim.priority ||
			(ch.priority == victim.priority && ch.handle < victim.handle) {
			victim = ch
		}
	}
	if victim == nil || victim.priority <= priority {
		return false
	}
	am.log.Debug("channel preempted",
		zap.String("victim", victim.key),
		zap.Int("victim_priority", victim.priority),
		zap.Int("priority", priority))
	am.hardStop(victim.handle)
	return true
}

// Stop 停止声道：登记名的长时声道淡出，其余立即停止
func (am *AudioManager) Stop(handle ChannelHandle) bool {
	ch, ok := am.channels[handle]
	if !ok {
		return false
	}
	if !ch.named {
		am.hardStop(handle)
		return true
	}
	if !ch.fading {
		ch.fading = true
		ch.fade = timing.NewIntervalTimer(am.cfg.FadeOutMs)
	}
	return true
}

// StopNamed 按键名停止长时声道（淡出）
func (am *AudioManager) StopNamed(name string) bool {
	h, ok := am.named[name]
	if !ok {
		return false
	}
	return am.Stop(h)
}

// StopAll 立即停止所有声道并清空全部记录（会话结束时调用）
func (am *AudioManager) StopAll() {
	for _, ch := range am.channels {
		ch.voice.Stop()
	}
	am.channels = make(map[ChannelHandle]*channel, am.capacity)
	am.named = make(map[string]ChannelHandle)
}

// Update 推进淡出并回收已结束的声道
// 淡出从发出 Stop 之后的第一次 Update 开始计时
func (am *AudioManager) Update(now timing.Tick) {
	for _, h := range am.handles() {
		ch := am.channels[h]
		if !ch.fading {
			continue
		}
		if !ch.fade.Started() {
			ch.fade.Start(now)
		}
		if ch.fade.Advance(now).Kind == timing.TransitionTick {
			am.hardStop(h)
			continue
		}
		ch.voice.SetVolume(am.effectiveVolume(ch) * (1 - ch.fade.Progress(now)))
	}
	am.reap()
}

// reap 回收已自然结束的声道
func (am *AudioManager) reap() {
	for h, ch := range am.channels {
		if !ch.infinite && !ch.voice.IsPlaying() {
			am.release(h)
		}
	}
}

func (am *AudioManager) hardStop(handle ChannelHandle) {
	ch, ok := am.channels[handle]
	if !ok {
		return
	}
	ch.voice.Stop()
	am.release(handle)
}

func (am *AudioManager) release(handle ChannelHandle) {
	ch, ok := am.channels[handle]
	if !ok {
		return
	}
	delete(am.channels, handle)
	if ch.named && am.named[ch.key] == handle {
		delete(am.named, ch.key)
	}
}

// handles 升序句柄，保证遍历顺序确定
func (am *AudioManager) handles() []ChannelHandle {
	hs := make([]ChannelHandle, 0, len(am.channels))
	for h := range am.channels {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

func (am *AudioManager) intn(n int) int {
	if n <= 1 {
		return 0
	}
	if am.rng == nil {
		return rand.Intn(n)
	}
	return am.rng.Intn(n)
}

func (am *AudioManager) effectiveVolume(ch *channel) float64 {
	settings := am.settings.GetSettings()
	if ch.music {
		return ch.volume * settings.MusicVolume
	}
	return ch.volume * settings.SoundVolume
}

// ActiveChannels 当前占用的声道数
func (am *AudioManager) ActiveChannels() int {
	return len(am.channels)
}

// PriorityOf 返回声道记录的优先级
func (am *AudioManager) PriorityOf(handle ChannelHandle) (int, bool) {
	ch, ok := am.channels[handle]
	if !ok {
		return 0, false
	}
	return ch.priority, true
}

// IsActive 声道是否仍被占用（淡出中也算占用）
func (am *AudioManager) IsActive(handle ChannelHandle) bool {
	_, ok := am.channels[handle]
	return ok
}

// NamedChannel 返回按键名登记的长时声道
func (am *AudioManager) NamedChannel(name string) (ChannelHandle, bool) {
	h, ok := am.named[name]
	return h, ok
}

// Trigger 播放一次
func (am *AudioManager) Trigger(key string) bool {
	_, ok := am.Play(key, 0)
	return ok
}

// StartLoop 无限循环播放（长时类别按键名登记）
func (am *AudioManager) StartLoop(key string) bool {
	_, ok := am.Play(key, LoopForever)
	return ok
}

// PlayMusic 播放背景音乐
func (am *AudioManager) PlayMusic(key string) bool {
	return am.StartLoop(key)
}

// SetMusicVolume 设置音乐音量并立即应用到正在播放的音乐
func (am *AudioManager) SetMusicVolume(volume float64) {
	am.settings.SetMusicVolume(volume)
	am.applyVolumes()
}

// SetSoundVolume 设置音效音量并立即应用到正在播放的音效
func (am *AudioManager) SetSoundVolume(volume float64) {
	am.settings.SetSoundVolume(volume)
	am.applyVolumes()
}

// SetMusicEnabled 关闭音乐时淡出当前音乐
func (am *AudioManager) SetMusicEnabled(enabled bool) {
	am.settings.SetMusicEnabled(enabled)
	if enabled {
		return
	}
	for _, h := range am.handles() {
		if am.channels[h].music {
			am.Stop(h)
		}
	}
}

func (am *AudioManager) applyVolumes() {
	for _, ch := range am.channels {
		if !ch.fading {
			ch.voice.SetVolume(am.effectiveVolume(ch))
		}
	}
}
