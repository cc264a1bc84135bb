package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

type NoteService struct {
	repo NoteRepository
}

func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

// NoteInput is the editable part of a note.
type NoteInput struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	CategoryID *string `json:"categoryId"`
}

func (s *NoteService) Create(ctx context.Context, id entities.Identity, in NoteInput) (*entities.Note, error) {
	if err := requireSignedIn(id); err != nil {
		return nil, err
	}

	n, err := entities.NewNote(id.UserID, in.Title, in.Content, normalizeCategory(in.CategoryID))
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, id entities.Identity, noteID int64, in NoteInput) (*entities.Note, error) {
	if err := requireSignedIn(id); err != nil {
		return nil, err
	}

	n, err := entities.NewNote(id.UserID, in.Title, in.Content, normalizeCategory(in.CategoryID))
	if err != nil {
		return nil, err
	}
	n.ID = noteID
	n.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, id entities.Identity, noteID int64) error {
	if err := requireSignedIn(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id.UserID, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (s *NoteService) List(ctx context.Context, id entities.Identity) ([]entities.Note, error) {
	if err := requireSignedIn(id); err != nil {
		return nil, err
	}

	notes, err := s.repo.List(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func normalizeCategory(categoryID *string) *string {
	if categoryID == nil {
		return nil
	}
	v := strings.TrimSpace(*categoryID)
	if v == "" {
		return nil
	}
	return &v
}
