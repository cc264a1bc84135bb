package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres"
)

// ResetRepository wipes a user's quiz history.
type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetUser deletes answers and results of userID. Bookmarks and notes are
// kept.
func (s *ResetRepository) ResetUser(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `
		DELETE FROM quiz_answers
		WHERE result_id IN (SELECT id FROM quiz_results WHERE user_id = $1)
	`, userID); err != nil {
		return fmt.Errorf("delete quiz_answers: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM quiz_results WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete quiz_results: %w", err)
	}

	return nil
}
