package config

import "math"

// Scaler 多人难度缩放规则
// players 为总人数（>= 1），单人时实现应返回原值
type Scaler interface {
	ScaleInterval(species string, ms int64, players int) int64
	ScaleQuota(species string, wave, quota, players int) int
	ScaleSpeed(speed float64, players int) float64
}

// DefaultScaler 按 ScalingConfig 做线性缩放
type DefaultScaler struct {
	Config ScalingConfig
}

// ScaleInterval 人数越多间隔越短：ms / (1 + r*(n-1))
func (s DefaultScaler) ScaleInterval(species string, ms int64, players int) int64 {
	extra := float64(players - 1)
	if extra <= 0 || ms <= 0 {
		return ms
	}
	scaled := float64(ms) / (1 + s.Config.IntervalReductionPerPlayer*extra)
	return int64(math.Round(scaled))
}

// ScaleQuota 每多一名玩家增加固定配额；level1 使用 RowsPerPlayer
func (s DefaultScaler) ScaleQuota(species string, wave, quota, players int) int {
	extra := players - 1
	if extra <= 0 {
		return quota
	}
	if species == SpeciesLevel1 {
		return quota + s.Config.RowsPerPlayer*extra
	}
	return quota + s.Config.QuotaPerPlayer[species]*extra
}

// ScaleSpeed 舰队推进速度：speed * (1 + s*(n-1))
func (s DefaultScaler) ScaleSpeed(speed float64, players int) float64 {
	extra := float64(players - 1)
	if extra <= 0 {
		return speed
	}
	return speed * (1 + s.Config.FleetSpeedPerPlayer*extra)
}
