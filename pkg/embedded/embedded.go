// Package embedded 提供内嵌内容表的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包保存该文件系统，让其他包可以按 "data/" 前缀访问内嵌的 YAML 表。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// DataDir 内嵌内容表所在目录
const DataDir = "data"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置内嵌文件系统
// 必须在 main() 开始时、任何内容加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// FS 返回内嵌文件系统（根目录包含 data/）
func FS() (fs.FS, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	return dataFS, nil
}

// normalize 标准化路径并检查前缀
func normalize(path string) (string, error) {
	if !initialized {
		return "", fmt.Errorf("embedded package not initialized, call Init() first")
	}
	// embed.FS 使用正斜杠
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	if path != DataDir && !strings.HasPrefix(path, DataDir+"/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with '%s/')", path, DataDir)
	}
	return path, nil
}

// Open 打开内嵌文件，路径必须以 "data/" 开头
func Open(path string) (fs.File, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(p)
}

// ReadFile 读取内嵌文件内容，路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, p)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// ReadDir 读取目录内容
func ReadDir(path string) ([]fs.DirEntry, error) {
	p, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(dataFS, p)
}
