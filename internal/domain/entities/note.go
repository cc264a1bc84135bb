package entities

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyNoteTitle = errors.New("note title is required")

// Note is a free-form study note written by a user.
type Note struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"-"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID *string   `json:"categoryId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewNote validates and builds a note for userID.
func NewNote(userID, title, content string, categoryID *string) (*Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyNoteTitle
	}

	now := time.Now()
	return &Note{
		UserID:     userID,
		Title:      title,
		Content:    content,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
