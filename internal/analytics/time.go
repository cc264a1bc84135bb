package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// QuestionSeconds is the full countdown of a question; time used is
// QuestionSeconds minus the time remaining.
const QuestionSeconds = 120

// TimeBucket counts answers whose remaining time falls in [Min, Max].
type TimeBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

// bucketRanges are disjoint and cover [0, QuestionSeconds].
var bucketRanges = [...]struct{ min, max int }{
	{100, 120},
	{80, 99},
	{60, 79},
	{40, 59},
	{20, 39},
	{0, 19},
}

// TimeStats describes how much time was left when questions were answered.
type TimeStats struct {
	Answers          int          `json:"answers"`
	AverageRemaining float64      `json:"averageRemaining"`
	MinRemaining     int          `json:"minRemaining"`
	MaxRemaining     int          `json:"maxRemaining"`
	Buckets          []TimeBucket `json:"buckets"`
}

// TimeMetrics computes average, min, max and the bucket histogram of the
// remaining time of every answer. Values outside [0, 120] are clamped.
func TimeMetrics(records []entities.AnswerRecord) TimeStats {
	stats := TimeStats{Buckets: emptyBuckets()}
	if len(records) == 0 {
		return stats
	}

	sum := 0
	stats.MinRemaining = QuestionSeconds
	for _, r := range records {
		rem := clampRemaining(r.TimeRemaining)

		sum += rem
		if rem < stats.MinRemaining {
			stats.MinRemaining = rem
		}
		if rem > stats.MaxRemaining {
			stats.MaxRemaining = rem
		}

		stats.Buckets[BucketIndex(rem)].Count++
	}

	stats.Answers = len(records)
	stats.AverageRemaining = float64(sum) / float64(len(records))

	return stats
}

// BucketIndex returns the index of the first bucket containing remaining.
func BucketIndex(remaining int) int {
	rem := clampRemaining(remaining)
	for i, b := range bucketRanges {
		if rem >= b.min && rem <= b.max {
			return i
		}
	}
	return len(bucketRanges) - 1
}

func emptyBuckets() []TimeBucket {
	buckets := make([]TimeBucket, len(bucketRanges))
	for i, b := range bucketRanges {
		buckets[i] = TimeBucket{
			Label: strconv.Itoa(b.min) + "-" + strconv.Itoa(b.max) + "s",
			Min:   b.min,
			Max:   b.max,
		}
	}
	return buckets
}

func clampRemaining(v int) int {
	switch {
	case v < 0:
		return 0
	case v > QuestionSeconds:
		return QuestionSeconds
	default:
		return v
	}
}

// TimeUsed returns the seconds spent on an answer.
func TimeUsed(remaining int) int {
	return QuestionSeconds - clampRemaining(remaining)
}

// TimeGroup is the average time used and correctness rate of a group of
// answers.
type TimeGroup struct {
	Key             string  `json:"key"`
	Label           string  `json:"label"`
	Answers         int     `json:"answers"`
	Correct         int     `json:"correct"`
	AverageTimeUsed float64 `json:"averageTimeUsed"`
	CorrectRate     float64 `json:"correctRate"`
}

type timeAcc struct {
	group   TimeGroup
	usedSum int
}

func groupTime(records []entities.AnswerRecord, key func(entities.AnswerRecord) (string, string)) []TimeGroup {
	groups := make(map[string]*timeAcc)

	for _, r := range records {
		k, label := key(r)
		acc, ok := groups[k]
		if !ok {
			acc = &timeAcc{group: TimeGroup{Key: k, Label: label}}
			groups[k] = acc
		}

		acc.group.Answers++
		acc.usedSum += TimeUsed(r.TimeRemaining)
		if r.IsCorrect {
			acc.group.Correct++
		}
	}

	out := make([]TimeGroup, 0, len(groups))
	for _, acc := range groups {
		g := acc.group
		g.AverageTimeUsed = float64(acc.usedSum) / float64(g.Answers)
		g.CorrectRate = entities.Percentage(g.Correct, g.Answers)
		out = append(out, g)
	}

	return out
}

// TimeByCategory groups answers by category, ordered by category name.
func TimeByCategory(records []entities.AnswerRecord) []TimeGroup {
	out := groupTime(records, func(r entities.AnswerRecord) (string, string) {
		return r.CategoryID, r.CategoryName
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Key < out[j].Key
	})

	return out
}

// TimeByDate groups answers by the UTC calendar day their quiz was completed,
// in chronological order.
func TimeByDate(records []entities.AnswerRecord) []TimeGroup {
	out := groupTime(records, func(r entities.AnswerRecord) (string, string) {
		day := r.CompletedAt.UTC().Format(time.DateOnly)
		return day, day
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}
