// Package scripting 提供可选的 Lua 难度钩子
//
// 脚本可以定义 scale_interval、scale_quota、scale_speed 中的任意几个。
// 未定义或执行出错的钩子回退到 Go 实现，脚本损坏时按默认难度运行，游戏不会中断。
package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/decker502/invaders/pkg/config"
)

// Lua 全局函数名
const (
	HookScaleInterval = "scale_interval"
	HookScaleQuota    = "scale_quota"
	HookScaleSpeed    = "scale_speed"
)

// Engine 封装一个 gopher-lua 虚拟机
// 只在游戏循环开始前的初始化阶段使用，不支持并发访问
type Engine struct {
	vm       *lua.LState
	fallback config.Scaler
	log      *zap.Logger
}

// NewEngine 创建引擎并加载 scriptsDir 下的所有 .lua 文件
// 目录不存在不算错误，此时只使用回退实现
func NewEngine(scriptsDir string, fallback config.Scaler, log *zap.Logger) (*Engine, error) {
	e := newEngine(fallback, log)
	if err := e.loadDir(scriptsDir); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// NewEngineFromSource 从一段脚本源码创建引擎
func NewEngineFromSource(src string, fallback config.Scaler, log *zap.Logger) (*Engine, error) {
	e := newEngine(fallback, log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return e, nil
}

func newEngine(fallback config.Scaler, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("MAX_PLAYERS", lua.LNumber(config.MaxPlayers))
	return &Engine{vm: vm, fallback: fallback, log: log.Named("lua")}
}

// loadDir 按文件名顺序加载目录中的 .lua 文件
func (e *Engine) loadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // 脚本是可选的
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasHook 脚本是否定义了该全局函数
func (e *Engine) HasHook(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// call 调用钩子并取回唯一的数值返回值
func (e *Engine) call(name string, args ...lua.LValue) (float64, bool) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return 0, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua hook error", zap.String("hook", name), zap.Error(err))
		return 0, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok || math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
		e.log.Error("lua hook returned non-number", zap.String("hook", name), zap.String("type", result.Type().String()))
		return 0, false
	}
	return float64(n), true
}

// ScaleInterval 调用 scale_interval(species, ms, players)
func (e *Engine) ScaleInterval(species string, ms int64, players int) int64 {
	v, ok := e.call(HookScaleInterval, lua.LString(species), lua.LNumber(ms), lua.LNumber(players))
	if !ok || v < 0 {
		return e.fallback.ScaleInterval(species, ms, players)
	}
	return int64(math.Round(v))
}

// ScaleQuota 调用 scale_quota(species, wave, quota, players)，Lua 中 wave 从 1 开始
func (e *Engine) ScaleQuota(species string, wave, quota, players int) int {
	v, ok := e.call(HookScaleQuota, lua.LString(species), lua.LNumber(wave+1), lua.LNumber(quota), lua.LNumber(players))
	if !ok || v < 0 {
		return e.fallback.ScaleQuota(species, wave, quota, players)
	}
	return int(math.Round(v))
}

// ScaleSpeed 调用 scale_speed(speed, players)
func (e *Engine) ScaleSpeed(speed float64, players int) float64 {
	v, ok := e.call(HookScaleSpeed, lua.LNumber(speed), lua.LNumber(players))
	if !ok || v < 0 {
		return e.fallback.ScaleSpeed(speed, players)
	}
	return v
}

// Close 释放虚拟机
func (e *Engine) Close() {
	e.vm.Close()
}
