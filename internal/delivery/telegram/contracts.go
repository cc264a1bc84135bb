package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/service"
	"github.com/aliskhannn/nqesh-reviewer/internal/storage"
)

// Bot is the part of the Bot API the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type QuizService interface {
	Categories(ctx context.Context) ([]entities.Category, error)
	StartQuiz(ctx context.Context, id entities.Identity, categoryID string) (service.QuizView, error)
	Answer(ctx context.Context, id entities.Identity, questionID string, selected *int) (service.QuizView, error)
	Next(ctx context.Context, id entities.Identity) (service.QuizView, error)
	Current(ctx context.Context, id entities.Identity) (service.QuizView, error)
	OnTimeout(l service.TimeoutListener)
	OnLevel(l service.LevelListener)
}

type DashboardService interface {
	Load(ctx context.Context, id entities.Identity) (analytics.Dashboard, error)
	Refresh(ctx context.Context, id entities.Identity) (analytics.Dashboard, error)
}

// MessageStorage remembers which message shows a user's current question.
type MessageStorage interface {
	Store(userID string, chatID int64, messageID int, questionID string)
	Get(userID string) (storage.QuestionMessage, bool)
	Delete(userID string)
	GetForQuestion(userID, questionID string) (storage.QuestionMessage, bool)
}
