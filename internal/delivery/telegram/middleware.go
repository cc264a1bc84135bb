package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres/repository"
	"github.com/aliskhannn/nqesh-reviewer/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		text, expected := userMessage(err)
		if expected {
			h.logger.Debug("handle error", zap.Int64("chat_id", chatID), zap.Error(err))
		} else {
			h.logger.Error("handle error", zap.Int64("chat_id", chatID), zap.Error(err))
		}

		msg := newMessage(chatID, text)
		kb := buildHomeKeyboard()
		msg.ReplyMarkup = *kb
		_ = h.send(msg)

		return nil
	}
}

// userMessage turns err into text for the chat. expected is false for
// failures worth an error log.
func userMessage(err error) (text string, expected bool) {
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		return msgNoQuestions, true
	case errors.Is(err, repository.ErrCategoryNotFound):
		return msgCategoryNotFound, true
	case errors.Is(err, quiz.ErrNotInProgress),
		errors.Is(err, service.ErrQuizNotLoaded):
		return msgNoQuiz, true
	case errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, quiz.ErrWrongQuestion):
		return msgAlreadyAnswered, true
	case errors.Is(err, quiz.ErrInvalidOption):
		return msgInvalidOption, true
	default:
		return msgInternalError, false
	}
}
