// Package entities contains domain entities used across the application.
package entities

// Category is a named review topic grouping an ordered set of questions.
// It is immutable once fetched for a session.
type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Questions   []Question `json:"questions,omitempty"`
}

// QuestionAt returns the question at index i.
func (c *Category) QuestionAt(i int) (Question, bool) {
	if c == nil || i < 0 || i >= len(c.Questions) {
		return Question{}, false
	}
	return c.Questions[i], true
}

// TotalQuestions returns the number of questions in the category.
func (c *Category) TotalQuestions() int {
	if c == nil {
		return 0
	}
	return len(c.Questions)
}
