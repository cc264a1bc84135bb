package analytics

import (
	"strconv"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// Input is the history a dashboard is computed from.
type Input struct {
	Recent       []entities.ResultSummary // newest first, for display
	TotalResults int                      // all-time result count
	Results      []entities.ResultSummary // history window for aggregates
	Answers      []entities.AnswerRecord  // flattened answers of that window
}

// Summary holds the headline figures of the dashboard.
type Summary struct {
	TotalQuizzes    int     `json:"totalQuizzes"`
	AverageScore    float64 `json:"averageScore"`
	BestScore       float64 `json:"bestScore"`
	TotalAnswered   int     `json:"totalAnswered"`
	TotalCorrect    int     `json:"totalCorrect"`
	OverallAccuracy float64 `json:"overallAccuracy"`
	TimedOut        int     `json:"timedOut"`
}

// Dashboard is every derived view shown on the performance page.
type Dashboard struct {
	Summary             Summary                  `json:"summary"`
	Recent              []entities.ResultSummary `json:"recent"`
	CategoryPerformance []CategoryStat           `json:"categoryPerformance"`
	TimeMetrics         TimeStats                `json:"timeMetrics"`
	TimeByCategory      []TimeGroup              `json:"timeByCategory"`
	TimeByDate          []TimeGroup              `json:"timeByDate"`
	HardestQuestions    []QuestionDifficulty     `json:"hardestQuestions"`
	Trend               []TrendPoint             `json:"trend"`
}

// Build computes the dashboard. It does not modify in.
func Build(in Input) Dashboard {
	return Dashboard{
		Summary:             summarize(in),
		Recent:              append([]entities.ResultSummary{}, in.Recent...),
		CategoryPerformance: CategoryPerformance(in.Results),
		TimeMetrics:         TimeMetrics(in.Answers),
		TimeByCategory:      TimeByCategory(in.Answers),
		TimeByDate:          TimeByDate(in.Answers),
		HardestQuestions:    HardestQuestions(in.Answers, HardestLimit),
		Trend:               ScoreTrend(in.Results),
	}
}

func summarize(in Input) Summary {
	s := Summary{TotalQuizzes: in.TotalResults}
	if s.TotalQuizzes < len(in.Results) {
		s.TotalQuizzes = len(in.Results)
	}

	scored := 0
	sum := 0.0
	for _, r := range in.Results {
		if r.TotalQuestions <= 0 {
			continue
		}
		pct := r.Percentage()
		sum += pct
		scored++
		if pct > s.BestScore {
			s.BestScore = pct
		}
	}
	if scored > 0 {
		s.AverageScore = sum / float64(scored)
	}

	for _, a := range in.Answers {
		s.TotalAnswered++
		if a.IsCorrect {
			s.TotalCorrect++
		}
		if a.SelectedOption == nil {
			s.TimedOut++
		}
	}
	s.OverallAccuracy = entities.Percentage(s.TotalCorrect, s.TotalAnswered)

	return s
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
