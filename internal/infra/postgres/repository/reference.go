package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres"
)

type ReferenceRepository struct {
	db postgres.DBTX
}

func NewReferenceRepository(db postgres.DBTX) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// List returns all reference documents in display order.
func (r *ReferenceRepository) List(ctx context.Context) ([]entities.ReferenceDocument, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, url, category
		FROM reference_documents
		ORDER BY position, title
	`)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	docs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entities.ReferenceDocument])
	if err != nil {
		return nil, fmt.Errorf("collect references: %w", err)
	}

	return docs, nil
}
