package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres"
)

// ErrResultExists is returned when an attempt was already stored.
var ErrResultExists = errors.New("quiz result already saved")

// ResultRepository stores completed attempts and their answers.
type ResultRepository struct {
	db postgres.DBTX
}

func NewResultRepository(db postgres.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save stores the result and its answers in one transaction, keyed by user
// and category with the category name denormalized. Saving the same attempt
// twice returns ErrResultExists and writes nothing.
func (r *ResultRepository) Save(ctx context.Context, userID string, result entities.QuizResult) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO quiz_results (
				attempt_id, user_id, category_id, category_name,
				score, total_questions, completed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (attempt_id) DO NOTHING
			RETURNING id
		`,
			result.AttemptID,
			userID,
			result.CategoryID,
			result.CategoryName,
			result.Score,
			result.TotalQuestions,
			result.CompletedAt,
		).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrResultExists
			}
			return fmt.Errorf("insert result: %w", err)
		}

		if len(result.Answers) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, a := range result.Answers {
			batch.Queue(`
				INSERT INTO quiz_answers (
					result_id, position, question_id, selected_option,
					is_correct, time_remaining, answered_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, id, i, a.QuestionID, a.SelectedOption, a.IsCorrect, a.TimeRemaining, a.AnsweredAt)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert answers: %w", err)
		}

		return nil
	})
}

// Recent returns the newest limit results and the user's total count.
func (r *ResultRepository) Recent(ctx context.Context, userID string, limit int) ([]entities.ResultSummary, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_results WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.attempt_id, r.category_id, r.category_name,
		       r.score, r.total_questions, r.completed_at,
		       (SELECT COUNT(*) FROM quiz_answers a WHERE a.result_id = r.id)
		FROM quiz_results r
		WHERE r.user_id = $1
		ORDER BY r.completed_at DESC, r.id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("recent results: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.ResultSummary, error) {
		var s entities.ResultSummary
		err := row.Scan(
			&s.ID,
			&s.AttemptID,
			&s.CategoryID,
			&s.CategoryName,
			&s.Score,
			&s.TotalQuestions,
			&s.CompletedAt,
			&s.AnswerCount,
		)
		return s, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("collect results: %w", err)
	}

	return results, total, nil
}

// DetailedAnswers returns the flattened answers of the user's newest limit
// submissions, oldest first.
func (r *ResultRepository) DetailedAnswers(ctx context.Context, userID string, limit int) ([]entities.AnswerRecord, error) {
	rows, err := r.db.Query(ctx, `
		WITH recent AS (
			SELECT id, attempt_id, category_id, category_name, completed_at
			FROM quiz_results
			WHERE user_id = $1
			ORDER BY completed_at DESC, id DESC
			LIMIT $2
		)
		SELECT r.attempt_id, r.category_id, r.category_name, a.question_id,
		       a.selected_option, a.is_correct, a.time_remaining,
		       a.answered_at, r.completed_at
		FROM recent r
		JOIN quiz_answers a ON a.result_id = r.id
		ORDER BY r.completed_at, r.id, a.position
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("detailed answers: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.AnswerRecord, error) {
		var a entities.AnswerRecord
		err := row.Scan(
			&a.QuizID,
			&a.CategoryID,
			&a.CategoryName,
			&a.QuestionID,
			&a.SelectedOption,
			&a.IsCorrect,
			&a.TimeRemaining,
			&a.AnsweredAt,
			&a.CompletedAt,
		)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect answers: %w", err)
	}

	return records, nil
}
