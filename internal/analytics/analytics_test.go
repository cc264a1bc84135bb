package analytics_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

var day = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func result(id int64, category string, score, total int, at time.Time) entities.ResultSummary {
	return entities.ResultSummary{
		ID:             id,
		AttemptID:      "attempt-" + string(rune('a'+id)),
		CategoryID:     category,
		CategoryName:   "Name " + category,
		Score:          score,
		TotalQuestions: total,
		AnswerCount:    total,
		CompletedAt:    at,
	}
}

func answer(quiz, category, question string, correct bool, remaining int, at time.Time) entities.AnswerRecord {
	opt := 0
	return entities.AnswerRecord{
		QuizID:         quiz,
		CategoryID:     category,
		CategoryName:   "Name " + category,
		QuestionID:     question,
		SelectedOption: &opt,
		IsCorrect:      correct,
		TimeRemaining:  remaining,
		CompletedAt:    at,
	}
}

func TestCategoryPerformance_AverageVersusOverall(t *testing.T) {
	stats := analytics.CategoryPerformance([]entities.ResultSummary{
		result(1, "lead", 8, 10, day),
		result(2, "lead", 1, 2, day.Add(time.Hour)),
	})

	if len(stats) != 1 {
		t.Fatalf("expected 1 group, got %d", len(stats))
	}

	s := stats[0]
	if s.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", s.Attempts)
	}
	if !approx(s.AveragePercentage, 65) {
		t.Errorf("expected average 65, got %v", s.AveragePercentage)
	}
	if !approx(s.OverallPercentage, 75) {
		t.Errorf("expected overall 75, got %v", s.OverallPercentage)
	}
	if !approx(s.BestScore, 80) {
		t.Errorf("expected best 80, got %v", s.BestScore)
	}
}

func TestCategoryPerformance_SkipsUnusableResults(t *testing.T) {
	empty := result(1, "a", 0, 0, day)
	noAnswers := result(2, "b", 0, 5, day)
	noAnswers.AnswerCount = 0
	dup := result(3, "c", 2, 4, day)

	stats := analytics.CategoryPerformance([]entities.ResultSummary{empty, noAnswers, dup, dup})

	if len(stats) != 1 || stats[0].CategoryID != "c" {
		t.Fatalf("expected only category c, got %+v", stats)
	}
	if stats[0].Attempts != 1 {
		t.Errorf("expected duplicate submission counted once, got %d", stats[0].Attempts)
	}
	for _, s := range stats {
		if math.IsNaN(s.AveragePercentage) || math.IsInf(s.OverallPercentage, 0) {
			t.Errorf("unexpected non-finite value in %+v", s)
		}
	}
}

func TestCategoryPerformance_SortedByName(t *testing.T) {
	stats := analytics.CategoryPerformance([]entities.ResultSummary{
		result(1, "z", 1, 1, day),
		result(2, "b", 1, 1, day),
		result(3, "m", 1, 1, day),
	})

	var got []string
	for _, s := range stats {
		got = append(got, s.CategoryID)
	}
	if want := []string{"b", "m", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTimeMetrics_BucketExhaustive(t *testing.T) {
	for rem := 0; rem <= analytics.QuestionSeconds; rem++ {
		stats := analytics.TimeMetrics([]entities.AnswerRecord{answer("q", "c", "x", true, rem, day)})

		total := 0
		for _, b := range stats.Buckets {
			total += b.Count
			if b.Count == 1 && (rem < b.Min || rem > b.Max) {
				t.Errorf("remaining %d counted in bucket %s", rem, b.Label)
			}
		}
		if total != 1 {
			t.Errorf("remaining %d: expected exactly one bucket, got %d", rem, total)
		}
	}
}

func TestTimeMetrics_Summary(t *testing.T) {
	stats := analytics.TimeMetrics([]entities.AnswerRecord{
		answer("q", "c", "1", true, 110, day),
		answer("q", "c", "2", false, 0, day),
		answer("q", "c", "3", true, 50, day),
		answer("q", "c", "4", true, 500, day),
	})

	if stats.Answers != 4 {
		t.Errorf("expected 4 answers, got %d", stats.Answers)
	}
	if stats.MinRemaining != 0 || stats.MaxRemaining != 120 {
		t.Errorf("expected range 0..120, got %d..%d", stats.MinRemaining, stats.MaxRemaining)
	}
	if !approx(stats.AverageRemaining, 70) {
		t.Errorf("expected average 70, got %v", stats.AverageRemaining)
	}
	if stats.Buckets[0].Count != 2 || stats.Buckets[3].Count != 1 || stats.Buckets[5].Count != 1 {
		t.Errorf("unexpected buckets %+v", stats.Buckets)
	}
}

func TestTimeMetrics_Empty(t *testing.T) {
	stats := analytics.TimeMetrics(nil)

	if stats.Answers != 0 || stats.AverageRemaining != 0 || stats.MinRemaining != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
	if len(stats.Buckets) != 6 {
		t.Errorf("expected 6 buckets, got %d", len(stats.Buckets))
	}
}

func TestTimeByCategoryAndDate(t *testing.T) {
	records := []entities.AnswerRecord{
		answer("q1", "b", "1", true, 100, day),
		answer("q1", "b", "2", false, 60, day),
		answer("q2", "a", "3", true, 20, day.Add(48*time.Hour)),
	}

	byCat := analytics.TimeByCategory(records)
	if len(byCat) != 2 || byCat[0].Key != "a" || byCat[1].Key != "b" {
		t.Fatalf("unexpected grouping %+v", byCat)
	}
	if !approx(byCat[1].AverageTimeUsed, 40) || !approx(byCat[1].CorrectRate, 50) {
		t.Errorf("unexpected category b figures %+v", byCat[1])
	}

	byDate := analytics.TimeByDate(records)
	if len(byDate) != 2 || byDate[0].Key != "2026-05-10" || byDate[1].Key != "2026-05-12" {
		t.Fatalf("unexpected date grouping %+v", byDate)
	}
	if !approx(byDate[1].AverageTimeUsed, 100) || !approx(byDate[1].CorrectRate, 100) {
		t.Errorf("unexpected date figures %+v", byDate[1])
	}
}

func TestHardestQuestions_Filter(t *testing.T) {
	records := []entities.AnswerRecord{
		answer("q1", "c", "once", false, 10, day),
		answer("q1", "c", "easy", true, 10, day),
		answer("q2", "c", "easy", true, 10, day),
		answer("q1", "c", "hard", false, 10, day),
		answer("q2", "c", "hard", false, 10, day),
		answer("q3", "c", "hard", true, 10, day),
	}

	ranked := analytics.HardestQuestions(records, 0)

	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked questions, got %+v", ranked)
	}
	if ranked[0].QuestionID != "hard" || ranked[1].QuestionID != "easy" {
		t.Errorf("expected [hard easy], got [%s %s]", ranked[0].QuestionID, ranked[1].QuestionID)
	}
	if !approx(ranked[0].SuccessRate, 100.0/3) {
		t.Errorf("expected 33.3%%, got %v", ranked[0].SuccessRate)
	}
	for _, d := range ranked {
		if d.QuestionID == "once" {
			t.Error("question attempted once must not be ranked")
		}
	}
}

func TestHardestQuestions_Limit(t *testing.T) {
	var records []entities.AnswerRecord
	for i := 0; i < 15; i++ {
		q := string(rune('a' + i))
		records = append(records,
			answer("q1", "c", q, false, 0, day),
			answer("q2", "c", q, i%2 == 0, 0, day),
		)
	}

	ranked := analytics.HardestQuestions(records, analytics.HardestLimit)
	if len(ranked) != 10 {
		t.Fatalf("expected 10, got %d", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].SuccessRate > ranked[i].SuccessRate {
			t.Errorf("ranking not ascending at %d", i)
		}
	}
}

func TestScoreTrend(t *testing.T) {
	tests := []struct {
		name    string
		results []entities.ResultSummary
		want    []float64
	}{
		{
			name:    "too few points",
			results: []entities.ResultSummary{result(1, "c", 1, 2, day), result(2, "c", 2, 2, day)},
			want:    nil,
		},
		{
			name: "sorted chronologically before fitting",
			results: []entities.ResultSummary{
				result(3, "c", 3, 4, day.Add(2*time.Hour)),
				result(1, "c", 1, 4, day),
				result(2, "c", 2, 4, day.Add(time.Hour)),
			},
			want: []float64{25, 50, 75},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			points := analytics.ScoreTrend(tc.results)
			if len(points) != len(tc.want) {
				t.Fatalf("expected %d points, got %d", len(tc.want), len(points))
			}
			for i, p := range points {
				if !approx(p.Trend, tc.want[i]) || !approx(p.Percentage, tc.want[i]) {
					t.Errorf("point %d: expected %v, got %+v", i, tc.want[i], p)
				}
			}
		})
	}
}

func TestFitLine(t *testing.T) {
	line, ok := analytics.FitLine([]float64{50, 60, 40, 70})
	if !ok {
		t.Fatal("expected a fit")
	}
	if !approx(line.Slope, 4) || !approx(line.Intercept, 49) {
		t.Errorf("expected slope 4 intercept 49, got %+v", line)
	}

	if _, ok := analytics.FitLine([]float64{1, 2}); ok {
		t.Error("expected no fit for two points")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	in := analytics.Input{
		TotalResults: 7,
		Results: []entities.ResultSummary{
			result(1, "a", 3, 5, day),
			result(2, "b", 4, 4, day.Add(time.Hour)),
			result(3, "a", 1, 5, day.Add(2*time.Hour)),
		},
	}
	for i := 0; i < 30; i++ {
		q := string(rune('a' + i%7))
		in.Answers = append(in.Answers, answer("q", string(rune('a'+i%2)), q, i%3 == 0, (i*13)%121, day.Add(time.Duration(i)*time.Hour)))
	}

	first := analytics.Build(in)
	for i := 0; i < 20; i++ {
		if again := analytics.Build(in); !reflect.DeepEqual(first, again) {
			t.Fatal("expected identical dashboards on repeated builds")
		}
	}

	if first.Summary.TotalQuizzes != 7 || first.Summary.TotalAnswered != 30 {
		t.Errorf("unexpected summary %+v", first.Summary)
	}
	if !approx(first.Summary.BestScore, 100) {
		t.Errorf("expected best 100, got %v", first.Summary.BestScore)
	}
	if len(first.Trend) != 3 {
		t.Errorf("expected 3 trend points, got %d", len(first.Trend))
	}
}
