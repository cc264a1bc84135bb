package rest

import (
	"context"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/service"
)

type QuizService interface {
	Categories(ctx context.Context) ([]entities.Category, error)
	StartQuiz(ctx context.Context, id entities.Identity, categoryID string) (service.QuizView, error)
	Answer(ctx context.Context, id entities.Identity, questionID string, selected *int) (service.QuizView, error)
	Next(ctx context.Context, id entities.Identity) (service.QuizView, error)
	Complete(ctx context.Context, id entities.Identity) (service.QuizView, error)
	Reset(ctx context.Context, id entities.Identity) (service.QuizView, error)
	Current(ctx context.Context, id entities.Identity) (service.QuizView, error)
	Result(ctx context.Context, id entities.Identity) (service.QuizView, error)
	Abandon(ctx context.Context, id entities.Identity) error
}

type DashboardService interface {
	Load(ctx context.Context, id entities.Identity) (analytics.Dashboard, error)
	Refresh(ctx context.Context, id entities.Identity) (analytics.Dashboard, error)
	RecentResults(ctx context.Context, id entities.Identity, limit int) ([]entities.ResultSummary, int, error)
}

type BookmarkService interface {
	Add(ctx context.Context, id entities.Identity, questionID string) (*entities.Bookmark, error)
	Remove(ctx context.Context, id entities.Identity, questionID string) error
	List(ctx context.Context, id entities.Identity) ([]entities.Bookmark, error)
	IsBookmarked(ctx context.Context, id entities.Identity, questionID string) (bool, error)
}

type NoteService interface {
	Create(ctx context.Context, id entities.Identity, in service.NoteInput) (*entities.Note, error)
	Update(ctx context.Context, id entities.Identity, noteID int64, in service.NoteInput) (*entities.Note, error)
	Delete(ctx context.Context, id entities.Identity, noteID int64) error
	List(ctx context.Context, id entities.Identity) ([]entities.Note, error)
}

type CatalogService interface {
	Deck(ctx context.Context, categoryID string, shuffle bool) ([]entities.Flashcard, error)
	References(ctx context.Context) ([]entities.ReferenceDocument, error)
}

type ResetService interface {
	ResetHistory(ctx context.Context, id entities.Identity) error
}

// TokenVerifier turns a bearer token into a signed-in identity.
type TokenVerifier interface {
	Verify(token string) (entities.Identity, error)
}
