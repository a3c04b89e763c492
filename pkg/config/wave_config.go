package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// WaveDescriptor 单个波次的物种配额
// 运行时只读；唯一的修改是开局时的多人缩放（生成派生表）
type WaveDescriptor struct {
	Level           int  `yaml:"level"`      // 难度等级，决定敌人开火档位，默认 1
	RowsLevel1      int  `yaml:"rowsLevel1"` // 蜂群行数
	CountLevel2     int  `yaml:"countLevel2"`
	CountLevel3     int  `yaml:"countLevel3"`
	CountLevel4     int  `yaml:"countLevel4"`
	CountBombarders int  `yaml:"countBombarders"`
	FinalBoss       bool `yaml:"finalBoss"`  // 可选：本波出现最终Boss
}

// WaveTable waves.yaml 的整体结构
type WaveTable struct {
	NewWavePauseMs int64            `yaml:"newWavePauseMs"` // 波次间固定暂停
	Waves          []WaveDescriptor `yaml:"waves"`
}

// ParseWaveTable 解析 waves.yaml
func ParseWaveTable(data []byte) (*WaveTable, error) {
	var table WaveTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse wave table YAML: %w", err)
	}
	applyWaveDefaults(&table)
	if err := validateWaveTable(&table); err != nil {
		return nil, fmt.Errorf("invalid wave table: %w", err)
	}
	return &table, nil
}

// applyWaveDefaults 为 WaveTable 中缺失的可选字段设置默认值
func applyWaveDefaults(table *WaveTable) {
	if table.NewWavePauseMs == 0 {
		table.NewWavePauseMs = 3000
	}
	for i := range table.Waves {
		if table.Waves[i].Level == 0 {
			table.Waves[i].Level = 1
		}
	}
}

// validateWaveTable 验证波次表的完整性和合法性
func validateWaveTable(table *WaveTable) error {
	if len(table.Waves) == 0 {
		return fmt.Errorf("at least one wave is required")
	}
	if table.NewWavePauseMs < 0 {
		return fmt.Errorf("newWavePauseMs cannot be negative")
	}

	for i, w := range table.Waves {
		if w.Level < 1 {
			return fmt.Errorf("wave %d: level must be >= 1, got %d", i, w.Level)
		}
		if w.RowsLevel1 < 0 || w.CountLevel2 < 0 || w.CountLevel3 < 0 || w.CountLevel4 < 0 || w.CountBombarders < 0 {
			return fmt.Errorf("wave %d: quotas cannot be negative", i)
		}
		if w.Total() == 0 {
			return fmt.Errorf("wave %d: at least one hostile is required", i)
		}
	}
	return nil
}

// Quota 返回物种在本波的配额（level1 为行数）
func (w WaveDescriptor) Quota(species string) int {
	switch species {
	case SpeciesLevel1:
		return w.RowsLevel1
	case SpeciesLevel2:
		return w.CountLevel2
	case SpeciesLevel3:
		return w.CountLevel3
	case SpeciesLevel4:
		return w.CountLevel4
	case SpeciesBombarder:
		return w.CountBombarders
	case SpeciesBoss:
		if w.FinalBoss {
			return 1
		}
	}
	return 0
}

// addQuota 为物种配额增加 delta（Boss 不参与加算）
func (w *WaveDescriptor) addQuota(species string, delta int) {
	switch species {
	case SpeciesLevel1:
		w.RowsLevel1 += delta
	case SpeciesLevel2:
		w.CountLevel2 += delta
	case SpeciesLevel3:
		w.CountLevel3 += delta
	case SpeciesLevel4:
		w.CountLevel4 += delta
	case SpeciesBombarder:
		w.CountBombarders += delta
	}
}

// Total 本波所有配额之和
func (w WaveDescriptor) Total() int {
	total := 0
	for _, sp := range HostileSpecies {
		total += w.Quota(sp)
	}
	return total
}

// Len 波次数
func (t *WaveTable) Len() int {
	return len(t.Waves)
}

// At 返回第 i 波（越界返回 false）
func (t *WaveTable) At(i int) (WaveDescriptor, bool) {
	if i < 0 || i >= len(t.Waves) {
		return WaveDescriptor{}, false
	}
	return t.Waves[i], true
}

func (t *WaveTable) clone() *WaveTable {
	return &WaveTable{
		NewWavePauseMs: t.NewWavePauseMs,
		Waves:          append([]WaveDescriptor(nil), t.Waves...),
	}
}
