package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// MaxHighScores 最高分表保留的条数
const MaxHighScores = 10

// HighScoreEntry 一条最高分记录
type HighScoreEntry struct {
	Score    int       `yaml:"score"`
	Players  int       `yaml:"players"`  // 本局人数
	Waves    int       `yaml:"waves"`    // 到达的波次
	Victory  bool      `yaml:"victory"`  // 是否清空所有波次
	Recorded time.Time `yaml:"recorded"` // 记录时间
}

// highScoreData 持久化结构
type highScoreData struct {
	Entries []HighScoreEntry `yaml:"entries"`
}

// HighScoreTable 最高分表
//
// 职责：
//   - 按分数降序保留前 MaxHighScores 条
//   - 通过 gdata 持久化（YAML 格式，与设置一致）
//
// 存储不可用时退化为纯内存表，Save 直接返回 nil。
type HighScoreTable struct {
	gdataManager *gdata.Manager
	entries      []HighScoreEntry
	log          *zap.Logger
}

const (
	highScoreObject   = "scores"
	highScoreProperty = "table"
)

// NewHighScoreTable 创建最高分表并尝试加载
func NewHighScoreTable(gdataManager *gdata.Manager, log *zap.Logger) *HighScoreTable {
	if log == nil {
		log = zap.NewNop()
	}
	t := &HighScoreTable{
		gdataManager: gdataManager,
		log:          log.Named("scores"),
	}
	if err := t.Load(); err != nil {
		t.log.Warn("failed to load high scores, starting empty", zap.Error(err))
	}
	return t
}

// Load 从 gdata 加载最高分表
func (t *HighScoreTable) Load() error {
	t.entries = nil
	if t.gdataManager == nil {
		return nil
	}
	if !t.gdataManager.ObjectPropExists(highScoreObject, highScoreProperty) {
		return nil
	}

	raw, err := t.gdataManager.LoadObjectProp(highScoreObject, highScoreProperty)
	if err != nil {
		return fmt.Errorf("failed to load high scores: %w", err)
	}
	var data highScoreData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to unmarshal high scores: %w", err)
	}

	for _, e := range data.Entries {
		if e.Score > 0 {
			t.entries = append(t.entries, e)
		}
	}
	t.sortAndTrim()
	return nil
}

// Save 保存最高分表
func (t *HighScoreTable) Save() error {
	if t.gdataManager == nil {
		return nil
	}
	raw, err := yaml.Marshal(highScoreData{Entries: t.entries})
	if err != nil {
		return fmt.Errorf("failed to marshal high scores: %w", err)
	}
	if err := t.gdataManager.SaveObjectProp(highScoreObject, highScoreProperty, raw); err != nil {
		return fmt.Errorf("failed to save high scores: %w", err)
	}
	return nil
}

// Submit 提交一条记录
// 返回名次（从 1 开始）；没有进入前 MaxHighScores 或分数为 0 时返回 0
func (t *HighScoreTable) Submit(entry HighScoreEntry) int {
	if entry.Score <= 0 {
		return 0
	}
	t.entries = append(t.entries, entry)
	t.sortAndTrim()
	for i := range t.entries {
		if t.entries[i] == entry {
			t.log.Info("new high score", zap.Int("rank", i+1), zap.Int("score", entry.Score))
			return i + 1
		}
	}
	return 0
}

// sortAndTrim 分数降序；同分时较早的记录在前
func (t *HighScoreTable) sortAndTrim() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		if t.entries[i].Score != t.entries[j].Score {
			return t.entries[i].Score > t.entries[j].Score
		}
		return t.entries[i].Recorded.Before(t.entries[j].Recorded)
	})
	if len(t.entries) > MaxHighScores {
		t.entries = t.entries[:MaxHighScores]
	}
}

// Entries 返回记录副本
func (t *HighScoreTable) Entries() []HighScoreEntry {
	out := make([]HighScoreEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Best 最高分，表为空时为 0
func (t *HighScoreTable) Best() int {
	if len(t.entries) == 0 {
		return 0
	}
	return t.entries[0].Score
}
