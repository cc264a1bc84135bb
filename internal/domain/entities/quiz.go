package entities

import "time"

// UserAnswer is the record of a single answered (or timed-out) question.
// It is created once per question per attempt and never mutated.
type UserAnswer struct {
	QuestionID     string    `json:"questionId"`
	SelectedOption *int      `json:"selectedOption"` // nil: time expired with no selection
	IsCorrect      bool      `json:"isCorrect"`
	TimeRemaining  int       `json:"timeRemaining"` // seconds left on the countdown
	AnsweredAt     time.Time `json:"answeredAt"`
}

// TimedOut reports whether the answer was recorded because time ran out.
func (a UserAnswer) TimedOut() bool {
	return a.SelectedOption == nil
}

// QuizResult is the outcome of one completed attempt.
type QuizResult struct {
	AttemptID      string       `json:"attemptId"`
	CategoryID     string       `json:"categoryId"`
	CategoryName   string       `json:"categoryName"`
	Answers        []UserAnswer `json:"answers"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	CompletedAt    time.Time    `json:"completedAt"`
}

// Percentage returns the attempt's score as a percentage of its questions.
func (r QuizResult) Percentage() float64 {
	return Percentage(r.Score, r.TotalQuestions)
}

// PendingResult is a result whose save failed, kept until it can be flushed.
type PendingResult struct {
	UserID string     `json:"userId"`
	Result QuizResult `json:"result"`
}

// ResultSummary is a stored result without the per-answer detail.
type ResultSummary struct {
	ID             int64     `json:"id"`
	AttemptID      string    `json:"attemptId"`
	CategoryID     string    `json:"categoryId"`
	CategoryName   string    `json:"categoryName"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	AnswerCount    int       `json:"answerCount"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Percentage returns the stored attempt's score percentage.
func (r ResultSummary) Percentage() float64 {
	return Percentage(r.Score, r.TotalQuestions)
}

// AnswerRecord is a stored answer flattened with its quiz context.
type AnswerRecord struct {
	QuizID         string    `json:"quizId"`
	CategoryID     string    `json:"categoryId"`
	CategoryName   string    `json:"categoryName"`
	QuestionID     string    `json:"questionId"`
	SelectedOption *int      `json:"selectedOption"`
	IsCorrect      bool      `json:"isCorrect"`
	TimeRemaining  int       `json:"timeRemaining"`
	AnsweredAt     time.Time `json:"answeredAt"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Percentage returns score/total*100, or 0 when total is not positive.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
