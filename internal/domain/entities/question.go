package entities

// OptionCount is the fixed number of answer options of every question.
const OptionCount = 4

// UnknownAnswer marks a question whose correct option could not be verified.
const UnknownAnswer = -1

// Question is a single multiple-choice review item.
type Question struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"categoryId"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Citation      string   `json:"citation,omitempty"`
}

// ValidOption reports whether i addresses one of the question's options.
func (q Question) ValidOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// IsCorrect compares the selected option with the correct one.
// A nil selection (time expired) is never correct.
func (q Question) IsCorrect(selected *int) bool {
	if selected == nil || q.CorrectAnswer == UnknownAnswer {
		return false
	}
	return *selected == q.CorrectAnswer
}

// CorrectOption returns the text of the correct option, if it is known.
func (q Question) CorrectOption() (string, bool) {
	if !q.ValidOption(q.CorrectAnswer) {
		return "", false
	}
	return q.Options[q.CorrectAnswer], true
}

// WithoutAnswer returns a copy safe to show before the question is answered.
func (q Question) WithoutAnswer() Question {
	q.CorrectAnswer = UnknownAnswer
	q.Explanation = ""
	q.Citation = ""
	return q
}
