package scoring

import "sort"

const (
	// DefaultWeight 缺省权重：权重表中不存在的ID按1.0计，绝不因缺失扣分
	DefaultWeight = 1.0
	// HighWeightThreshold 高权重阈值：达到该值的命中享受加成并可进入优先档
	HighWeightThreshold = 3.0
	// highWeightBoost 高权重命中在维度累计值中的倍数
	highWeightBoost = 5.0
	// tierMultiplier 优先档系数：单个高权重命中压过任意数量的普通命中
	tierMultiplier = 1000.0
)

// CandidateGame 候选游戏的打分视图（加载时构造一次，与持久化层解耦）
type CandidateGame struct {
	ID          uint64
	Slug        string
	Name        string
	TagIDs      []uint64
	ModeIDs     []uint64
	PlatformIDs map[uint64]struct{}
}

// ScoredCandidate 打分结果
type ScoredCandidate struct {
	Candidate *CandidateGame
	Score     float64
}

// matchDimension 单维度（标签或模式）累计：返回累计值、是否出现高权重命中、最高高权重值
func matchDimension(candidateIDs []uint64, sourceIDs map[uint64]struct{}, weights map[uint64]float64) (total float64, high bool, highest float64) {
	for _, id := range candidateIDs {
		if _, ok := sourceIDs[id]; !ok {
			continue
		}
		w, ok := weights[id]
		if !ok {
			w = DefaultWeight
		}
		if w >= HighWeightThreshold {
			total += w * highWeightBoost
			high = true
			if w > highest {
				highest = w
			}
		} else {
			total += w
		}
	}
	return total, high, highest
}

// Score 计算候选游戏相对于源游戏的相似度得分。
// 模式与标签各自独立累计；任一维度出现高权重命中时，最终得分加上 最高权重×1000 的优先档项，
// 且标签维度的优先档恒压过模式维度（即便模式命中的权重更高）。
// 得分为0表示两个维度均无命中，调用方须将其排除出结果。
func Score(c *CandidateGame, sourceTagIDs, sourceModeIDs map[uint64]struct{}, tagWeights, modeWeights map[uint64]float64) float64 {
	modeTotal, modeHigh, modeHighest := matchDimension(c.ModeIDs, sourceModeIDs, modeWeights)
	tagTotal, tagHigh, tagHighest := matchDimension(c.TagIDs, sourceTagIDs, tagWeights)

	switch {
	case tagHigh:
		return tagHighest*tierMultiplier + tagTotal + modeTotal
	case modeHigh:
		return modeHighest*tierMultiplier + tagTotal + modeTotal
	default:
		return tagTotal + modeTotal
	}
}

// SupportsAll 平台过滤为超集判定：候选必须支持过滤集中的全部平台，而非任意其一
func SupportsAll(c *CandidateGame, platformIDs []uint64) bool {
	for _, id := range platformIDs {
		if _, ok := c.PlatformIDs[id]; !ok {
			return false
		}
	}
	return true
}

// Rank 按得分降序排序；同分按候选ID升序，保证与数据层返回顺序无关的确定性排序
func Rank(scored []ScoredCandidate) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Candidate.ID < scored[j].Candidate.ID
	})
}
