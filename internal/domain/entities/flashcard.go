package entities

const answerUnavailable = "Answer unavailable"

// Flashcard is the study-mode view of a question.
type Flashcard struct {
	QuestionID  string `json:"questionId"`
	Front       string `json:"front"`
	Back        string `json:"back"`
	Explanation string `json:"explanation"`
	Citation    string `json:"citation,omitempty"`
}

// NewFlashcard turns a question into a card. The back never shows an
// option that is not verified as the correct one.
func NewFlashcard(q Question) Flashcard {
	back, ok := q.CorrectOption()
	if !ok {
		back = answerUnavailable
	}

	return Flashcard{
		QuestionID:  q.ID,
		Front:       q.Prompt,
		Back:        back,
		Explanation: q.Explanation,
		Citation:    q.Citation,
	}
}
