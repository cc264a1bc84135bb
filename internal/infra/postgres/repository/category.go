package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrQuestionNotFound = errors.New("question not found")
)

// CategoryRepository provides access to categories and their questions.
type CategoryRepository struct {
	db postgres.DBTX
}

func NewCategoryRepository(db postgres.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories without their questions.
func (r *CategoryRepository) List(ctx context.Context) ([]entities.Category, error) {
	query := `
		SELECT id, name, description, icon
		FROM categories
		ORDER BY position, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []entities.Category
	for rows.Next() {
		var c entities.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// GetWithQuestions returns a category with its ordered questions.
// A missing category is ErrCategoryNotFound; an existing category with no
// questions is returned as is and left to the caller to reject.
func (r *CategoryRepository) GetWithQuestions(ctx context.Context, id string) (*entities.Category, error) {
	var c entities.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, icon
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.Icon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, category_id, prompt, options, correct_answer, explanation, citation
		FROM questions
		WHERE category_id = $1
		ORDER BY position, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, scanQuestion)
	if err != nil {
		return nil, fmt.Errorf("collect questions: %w", err)
	}
	c.Questions = questions

	return &c, nil
}

// GetQuestion returns a single question.
func (r *CategoryRepository) GetQuestion(ctx context.Context, id string) (*entities.Question, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, category_id, prompt, options, correct_answer, explanation, citation
		FROM questions
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	q, err := pgx.CollectExactlyOneRow(rows, scanQuestion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	return &q, nil
}

func scanQuestion(row pgx.CollectableRow) (entities.Question, error) {
	var q entities.Question
	err := row.Scan(
		&q.ID,
		&q.CategoryID,
		&q.Prompt,
		&q.Options,
		&q.CorrectAnswer,
		&q.Explanation,
		&q.Citation,
	)
	return q, err
}
