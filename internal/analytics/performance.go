package analytics

import (
	"sort"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// CategoryStat summarizes every attempt a user made in one category.
//
// AveragePercentage is the unweighted mean of per-attempt percentages,
// OverallPercentage is total correct over total questions. They differ
// whenever attempts have different question counts.
type CategoryStat struct {
	CategoryID        string  `json:"categoryId"`
	CategoryName      string  `json:"categoryName"`
	Attempts          int     `json:"attempts"`
	AveragePercentage float64 `json:"averagePercentage"`
	BestScore         float64 `json:"bestScore"`
	OverallPercentage float64 `json:"overallPercentage"`
	TotalCorrect      int     `json:"totalCorrect"`
	TotalQuestions    int     `json:"totalQuestions"`
}

type categoryAcc struct {
	stat   CategoryStat
	sumPct float64
	seen   map[string]struct{}
}

// CategoryPerformance groups answer-bearing results by category. Results
// without answers or without questions are skipped, so a group never divides
// by zero and a category with no usable attempts is omitted.
func CategoryPerformance(results []entities.ResultSummary) []CategoryStat {
	groups := make(map[string]*categoryAcc)

	for _, r := range results {
		if r.AnswerCount <= 0 || r.TotalQuestions <= 0 {
			continue
		}

		acc, ok := groups[r.CategoryID]
		if !ok {
			acc = &categoryAcc{
				stat: CategoryStat{CategoryID: r.CategoryID, CategoryName: r.CategoryName},
				seen: make(map[string]struct{}),
			}
			groups[r.CategoryID] = acc
		}

		key := attemptKey(r)
		if _, dup := acc.seen[key]; dup {
			continue
		}
		acc.seen[key] = struct{}{}

		pct := r.Percentage()
		acc.stat.Attempts++
		acc.sumPct += pct
		acc.stat.TotalCorrect += r.Score
		acc.stat.TotalQuestions += r.TotalQuestions
		if pct > acc.stat.BestScore {
			acc.stat.BestScore = pct
		}
		if acc.stat.CategoryName == "" {
			acc.stat.CategoryName = r.CategoryName
		}
	}

	stats := make([]CategoryStat, 0, len(groups))
	for _, acc := range groups {
		s := acc.stat
		s.AveragePercentage = acc.sumPct / float64(s.Attempts)
		s.OverallPercentage = entities.Percentage(s.TotalCorrect, s.TotalQuestions)
		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].CategoryName != stats[j].CategoryName {
			return stats[i].CategoryName < stats[j].CategoryName
		}
		return stats[i].CategoryID < stats[j].CategoryID
	})

	return stats
}

func attemptKey(r entities.ResultSummary) string {
	if r.AttemptID != "" {
		return r.AttemptID
	}
	return "id:" + itoa(r.ID)
}
