package components

// HostileComponent 敌方实体标记
// 波次控制器以其存活数量判断波次是否清空
type HostileComponent struct {
	Species string
	Score   int
	Row     int  // 蜂群行号，非蜂群为 -1
	InSwarm bool // 随舰队整体移动
}
