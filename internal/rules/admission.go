package rules

import (
	"slices"

	"github.com/shopspring/decimal"
)

// RankingResult 一次录取排名的结果
type RankingResult struct {
	// Ranked 达到最低分的候选人，按最终名次排列
	Ranked []Candidate

	// Approved 录取的报名 ID，长度为 min(capacity, len(Ranked))
	Approved []string
}

// Eligible 达到最低分的人数
func (r RankingResult) Eligible() int { return len(r.Ranked) }

// RankAdmissions 录取排名
// 过滤掉没有成绩或低于最低分的候选人（等于最低分视为合格），按成绩降序，
// 同分时依次使用 tieBreak 与确定性兜底顺序，取前 capacity 名
func RankAdmissions(candidates []Candidate, capacity int, minimum decimal.Decimal, tieBreak Comparator) RankingResult {
	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score == nil || c.Score.LessThan(minimum) {
			continue
		}
		ranked = append(ranked, c)
	}

	slices.SortFunc(ranked, func(a, b Candidate) int {
		if c := b.Score.Cmp(*a.Score); c != 0 {
			return c
		}
		if tieBreak != nil {
			if c := tieBreak(a, b); c != 0 {
				return c
			}
		}
		return fallbackOrder(a, b)
	})

	n := min(max(capacity, 0), len(ranked))
	approved := make([]string, 0, n)
	for _, c := range ranked[:n] {
		approved = append(approved, c.ID)
	}

	return RankingResult{Ranked: ranked, Approved: approved}
}
