package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]entities.Category, error)
	GetWithQuestions(ctx context.Context, id string) (*entities.Category, error)
	GetQuestion(ctx context.Context, id string) (*entities.Question, error)
}

type ResultRepository interface {
	Save(ctx context.Context, userID string, result entities.QuizResult) error
	Recent(ctx context.Context, userID string, limit int) ([]entities.ResultSummary, int, error)
	DetailedAnswers(ctx context.Context, userID string, limit int) ([]entities.AnswerRecord, error)
}

type BookmarkRepository interface {
	Add(ctx context.Context, userID string, q entities.Question) (*entities.Bookmark, error)
	Remove(ctx context.Context, userID, questionID string) error
	List(ctx context.Context, userID string) ([]entities.Bookmark, error)
	QuestionIDs(ctx context.Context, userID string) ([]string, error)
}

type NoteRepository interface {
	Create(ctx context.Context, n *entities.Note) error
	Update(ctx context.Context, n *entities.Note) error
	Delete(ctx context.Context, userID string, id int64) error
	List(ctx context.Context, userID string) ([]entities.Note, error)
}

type ReferenceRepository interface {
	List(ctx context.Context) ([]entities.ReferenceDocument, error)
}

// SnapshotStore keeps the durable subset of quiz sessions.
type SnapshotStore interface {
	Load(ctx context.Context, userID string) (quiz.Snapshot, error)
	Save(ctx context.Context, userID string, snap quiz.Snapshot) error
}

// ResultStash holds results whose save failed.
type ResultStash interface {
	Push(ctx context.Context, userID string, result entities.QuizResult) error
	Pop(ctx context.Context) (entities.PendingResult, bool, error)
	Len(ctx context.Context) (int64, error)
}

type DashboardCache interface {
	Get(ctx context.Context, userID string) (analytics.Dashboard, bool, error)
	Set(ctx context.Context, userID string, d analytics.Dashboard) error
	Invalidate(ctx context.Context, userID string) error
}

type BookmarkCache interface {
	Members(ctx context.Context, userID string) ([]string, bool, error)
	Replace(ctx context.Context, userID string, ids []string) error
	Add(ctx context.Context, userID, questionID string) error
	Remove(ctx context.Context, userID, questionID string) error
}

// EventPublisher announces domain events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}
