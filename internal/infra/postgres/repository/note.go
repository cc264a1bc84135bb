package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteRepository stores study notes.
type NoteRepository struct {
	db postgres.DBTX
}

func NewNoteRepository(db postgres.DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts the note and fills its id.
func (r *NoteRepository) Create(ctx context.Context, n *entities.Note) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO notes (user_id, title, content, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, n.UserID, n.Title, n.Content, n.CategoryID, n.CreatedAt, n.UpdatedAt).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// Update rewrites a note owned by n.UserID.
func (r *NoteRepository) Update(ctx context.Context, n *entities.Note) error {
	err := r.db.QueryRow(ctx, `
		UPDATE notes
		SET title = $1, content = $2, category_id = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
		RETURNING created_at
	`, n.Title, n.Content, n.CategoryID, n.UpdatedAt, n.ID, n.UserID).Scan(&n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// Delete removes a note owned by userID.
func (r *NoteRepository) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// List returns the user's notes, most recently edited first.
func (r *NoteRepository) List(ctx context.Context, userID string) ([]entities.Note, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, content, category_id, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY updated_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Note, error) {
		var n entities.Note
		err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CategoryID, &n.CreatedAt, &n.UpdatedAt)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect notes: %w", err)
	}

	return notes, nil
}
