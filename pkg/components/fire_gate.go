package components

import (
	"github.com/decker502/invaders/pkg/config"
	"github.com/decker502/invaders/pkg/timing"
)

// FireGateComponent 冷却门控的开火者
// Profile 在创建实体时从物种表解析，运行期不再查表
type FireGateComponent struct {
	Species      string
	Level        int
	Profile      config.FireProfile
	NextFireTick timing.Tick // now >= NextFireTick 才允许开火
	Direction    float64     // 子弹纵向方向：+1 向下（外星人），-1 向上（玩家）
}
