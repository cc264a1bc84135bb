package service

import (
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
)

// QuizView is what deliveries show of a session. The correct answer of
// the current question is hidden until it has been answered.
type QuizView struct {
	Status         quiz.Status          `json:"status"`
	AttemptID      string               `json:"attemptId,omitempty"`
	CategoryID     string               `json:"categoryId,omitempty"`
	CategoryName   string               `json:"categoryName,omitempty"`
	LastCategoryID string               `json:"lastCategoryId,omitempty"`
	QuestionIndex  int                  `json:"questionIndex"`
	TotalQuestions int                  `json:"totalQuestions"`
	Question       *entities.Question   `json:"question,omitempty"`
	Answer         *entities.UserAnswer `json:"answer,omitempty"`
	TimeRemaining  int                  `json:"timeRemaining"`
	TimerLevel     string               `json:"timerLevel"`
	TimerRunning   bool                 `json:"timerRunning"`
	Score          int                  `json:"score"`
	Percentage     float64              `json:"percentage"`
	Result         *entities.QuizResult `json:"result,omitempty"`
	SaveStatus     SaveStatus           `json:"saveStatus"`
}

// IsLastQuestion reports whether the current question is the final one.
func (v QuizView) IsLastQuestion() bool {
	return v.TotalQuestions > 0 && v.QuestionIndex == v.TotalQuestions-1
}

func (s *QuizService) view(userID string, sess *quiz.Session, st quiz.State) QuizView {
	v := QuizView{
		Status:         st.Status(),
		AttemptID:      st.AttemptID,
		LastCategoryID: st.LastCategoryID,
		QuestionIndex:  st.Index,
		TotalQuestions: st.TotalQuestions(),
		TimeRemaining:  sess.TimeRemaining(),
		TimerLevel:     sess.TimerLevel().String(),
		TimerRunning:   st.TimerRunning,
		Score:          st.Score(),
		Percentage:     st.ResultPercentage(),
		SaveStatus:     SaveNone,
	}

	if st.Category != nil {
		v.CategoryID = st.Category.ID
		v.CategoryName = st.Category.Name
	}

	if st.Status() == quiz.StatusInProgress {
		if q, ok := st.CurrentQuestion(); ok {
			if a, answered := st.AnswerFor(q.ID); answered {
				v.Answer = &a
			} else {
				q = q.WithoutAnswer()
			}
			v.Question = &q
		}
	}

	if st.Result != nil {
		v.Result = st.Result
		v.SaveStatus = s.SaveStatus(userID, st.AttemptID)
	}

	return v
}
