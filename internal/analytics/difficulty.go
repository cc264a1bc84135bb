package analytics

import (
	"sort"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

const (
	// MinDifficultyAttempts is the smallest sample a question needs before
	// it can be ranked.
	MinDifficultyAttempts = 2
	// HardestLimit caps the difficulty ranking.
	HardestLimit = 10
)

// QuestionDifficulty is the historical success rate of one question.
type QuestionDifficulty struct {
	QuestionID   string  `json:"questionId"`
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Attempts     int     `json:"attempts"`
	Correct      int     `json:"correct"`
	SuccessRate  float64 `json:"successRate"`
}

// HardestQuestions ranks questions answered at least MinDifficultyAttempts
// times by ascending success rate and returns at most limit of them.
// A non-positive limit means HardestLimit.
func HardestQuestions(records []entities.AnswerRecord, limit int) []QuestionDifficulty {
	if limit <= 0 {
		limit = HardestLimit
	}

	byQuestion := make(map[string]*QuestionDifficulty)
	for _, r := range records {
		d, ok := byQuestion[r.QuestionID]
		if !ok {
			d = &QuestionDifficulty{
				QuestionID:   r.QuestionID,
				CategoryID:   r.CategoryID,
				CategoryName: r.CategoryName,
			}
			byQuestion[r.QuestionID] = d
		}

		d.Attempts++
		if r.IsCorrect {
			d.Correct++
		}
	}

	ranked := make([]QuestionDifficulty, 0, len(byQuestion))
	for _, d := range byQuestion {
		if d.Attempts < MinDifficultyAttempts {
			continue
		}
		d.SuccessRate = entities.Percentage(d.Correct, d.Attempts)
		ranked = append(ranked, *d)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.SuccessRate != b.SuccessRate {
			return a.SuccessRate < b.SuccessRate
		}
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		return a.QuestionID < b.QuestionID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
