package analytics

import (
	"sort"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// MinTrendPoints is the fewest scores a trend line is fitted to.
const MinTrendPoints = 3

// TrendPoint is one attempt's percentage and the fitted trend at its index.
type TrendPoint struct {
	Index       int       `json:"index"`
	CompletedAt time.Time `json:"completedAt"`
	Percentage  float64   `json:"percentage"`
	Trend       float64   `json:"trend"`
}

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// FitLine fits a least-squares line to ys with x being the 0-based index.
// It reports false for fewer than MinTrendPoints values.
func FitLine(ys []float64) (Line, bool) {
	n := len(ys)
	if n < MinTrendPoints {
		return Line{}, false
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return Line{}, false
	}

	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	return Line{Slope: slope, Intercept: intercept}, true
}

// ScoreTrend sorts results chronologically and projects the fitted trend for
// each of them. Fewer than MinTrendPoints results yield nil.
func ScoreTrend(results []entities.ResultSummary) []TrendPoint {
	scored := make([]entities.ResultSummary, 0, len(results))
	for _, r := range results {
		if r.TotalQuestions > 0 {
			scored = append(scored, r)
		}
	}
	if len(scored) < MinTrendPoints {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if !scored[i].CompletedAt.Equal(scored[j].CompletedAt) {
			return scored[i].CompletedAt.Before(scored[j].CompletedAt)
		}
		return scored[i].ID < scored[j].ID
	})

	ys := make([]float64, len(scored))
	for i, r := range scored {
		ys[i] = r.Percentage()
	}

	line, ok := FitLine(ys)
	if !ok {
		return nil
	}

	points := make([]TrendPoint, len(scored))
	for i, r := range scored {
		points[i] = TrendPoint{
			Index:       i,
			CompletedAt: r.CompletedAt,
			Percentage:  ys[i],
			Trend:       line.At(float64(i)),
		}
	}

	return points
}
