package timing

import "math/rand"

// DrawInterval 在 [minMs, maxMs] 闭区间内均匀抽取一个间隔
// rng 为 nil 时使用全局随机源；min > max 时交换
func DrawInterval(rng *rand.Rand, minMs, maxMs int64) int64 {
	if maxMs < minMs {
		minMs, maxMs = maxMs, minMs
	}
	if maxMs == minMs {
		return minMs
	}
	span := maxMs - minMs + 1
	if rng == nil {
		return minMs + rand.Int63n(span)
	}
	return minMs + rng.Int63n(span)
}
