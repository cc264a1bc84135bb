package entities

import (
	"encoding/json"
	"time"
)

// BookmarkKind tells how a stored bookmark payload was decoded.
type BookmarkKind string

const (
	BookmarkVerified    BookmarkKind = "verified"    // payload decoded into a complete question
	BookmarkPlaceholder BookmarkKind = "placeholder" // payload missing or malformed
)

const placeholderOption = "Option unavailable"

// Bookmark is a question saved by a user for later review.
type Bookmark struct {
	ID         int64        `json:"id"`
	UserID     string       `json:"-"`
	QuestionID string       `json:"questionId"`
	Kind       BookmarkKind `json:"kind"`
	Question   Question     `json:"question"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// storedQuestion mirrors the JSON snapshot written when bookmarking.
type storedQuestion struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"categoryId"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Citation      string   `json:"citation"`
}

// EncodeBookmarkPayload serializes the question snapshot stored with a bookmark.
func EncodeBookmarkPayload(q Question) ([]byte, error) {
	correct := q.CorrectAnswer
	return json.Marshal(storedQuestion{
		ID:            q.ID,
		CategoryID:    q.CategoryID,
		Prompt:        q.Prompt,
		Options:       q.Options,
		CorrectAnswer: &correct,
		Explanation:   q.Explanation,
		Citation:      q.Citation,
	})
}

// DecodeBookmarkPayload parses a stored snapshot.
// Anything short of a complete question yields a placeholder whose options
// are marked unavailable and whose correct answer is UnknownAnswer.
func DecodeBookmarkPayload(questionID string, payload []byte) (Question, BookmarkKind) {
	var sq storedQuestion
	if len(payload) == 0 || json.Unmarshal(payload, &sq) != nil {
		return placeholderQuestion(questionID, ""), BookmarkPlaceholder
	}

	if sq.Prompt == "" ||
		len(sq.Options) != OptionCount ||
		sq.CorrectAnswer == nil ||
		*sq.CorrectAnswer < 0 || *sq.CorrectAnswer >= OptionCount {
		return placeholderQuestion(questionID, sq.Prompt), BookmarkPlaceholder
	}

	id := sq.ID
	if id == "" {
		id = questionID
	}

	return Question{
		ID:            id,
		CategoryID:    sq.CategoryID,
		Prompt:        sq.Prompt,
		Options:       sq.Options,
		CorrectAnswer: *sq.CorrectAnswer,
		Explanation:   sq.Explanation,
		Citation:      sq.Citation,
	}, BookmarkVerified
}

func placeholderQuestion(questionID, prompt string) Question {
	if prompt == "" {
		prompt = "Question details are unavailable."
	}

	options := make([]string, OptionCount)
	for i := range options {
		options[i] = placeholderOption
	}

	return Question{
		ID:            questionID,
		Prompt:        prompt,
		Options:       options,
		CorrectAnswer: UnknownAnswer,
	}
}
