package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres"
)

// BookmarkRepository stores bookmarked question snapshots.
type BookmarkRepository struct {
	db postgres.DBTX
}

func NewBookmarkRepository(db postgres.DBTX) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Add stores the snapshot, replacing an older one for the same question.
func (r *BookmarkRepository) Add(ctx context.Context, userID string, q entities.Question) (*entities.Bookmark, error) {
	payload, err := entities.EncodeBookmarkPayload(q)
	if err != nil {
		return nil, fmt.Errorf("encode bookmark: %w", err)
	}

	b := entities.Bookmark{
		UserID:     userID,
		QuestionID: q.ID,
		Kind:       entities.BookmarkVerified,
		Question:   q,
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO bookmarks (user_id, question_id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, question_id) DO UPDATE SET payload = EXCLUDED.payload
		RETURNING id, created_at
	`, userID, q.ID, payload).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add bookmark: %w", err)
	}

	return &b, nil
}

// Remove deletes the bookmark; removing a missing bookmark is not an error.
func (r *BookmarkRepository) Remove(ctx context.Context, userID, questionID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND question_id = $2`,
		userID, questionID,
	)
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

// List returns the user's bookmarks, newest first. Each payload is decoded
// into a verified question or a placeholder.
func (r *BookmarkRepository) List(ctx context.Context, userID string) ([]entities.Bookmark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, question_id, payload, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	bookmarks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Bookmark, error) {
		var (
			b       entities.Bookmark
			payload []byte
			created time.Time
		)
		if err := row.Scan(&b.ID, &b.QuestionID, &payload, &created); err != nil {
			return b, err
		}

		b.UserID = userID
		b.CreatedAt = created
		b.Question, b.Kind = entities.DecodeBookmarkPayload(b.QuestionID, payload)

		return b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect bookmarks: %w", err)
	}

	return bookmarks, nil
}

// QuestionIDs returns the ids of the user's bookmarked questions.
func (r *BookmarkRepository) QuestionIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT question_id FROM bookmarks WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("bookmark ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect bookmark ids: %w", err)
	}

	return ids, nil
}
