package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres/repository"
)

// ResetService wipes a user's quiz history.
type ResetService struct {
	tr         Transactor
	dashboards DashboardCache
	logger     *zap.Logger
}

func NewResetService(
	tr Transactor,
	dashboards DashboardCache,
	logger *zap.Logger,
) *ResetService {
	return &ResetService{
		tr:         tr,
		dashboards: dashboards,
		logger:     logger,
	}
}

// ResetHistory deletes results and answers in one transaction, then drops
// the memoized dashboard.
func (s *ResetService) ResetHistory(ctx context.Context, id entities.Identity) error {
	if err := requireSignedIn(id); err != nil {
		return err
	}

	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return repository.NewResetRepository(tx).ResetUser(ctx, id.UserID)
	})
	if err != nil {
		return fmt.Errorf("reset history: %w", err)
	}

	if err := s.dashboards.Invalidate(ctx, id.UserID); err != nil {
		s.logger.Warn("invalidate dashboard", zap.String("user_id", id.UserID), zap.Error(err))
	}

	s.logger.Info("history reset", zap.String("user_id", id.UserID))
	return nil
}
