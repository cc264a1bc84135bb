package telegram

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
	"github.com/aliskhannn/nqesh-reviewer/internal/service"
)

func (h *Handler) handleStartQuiz(userID int64, messageID int, categoryID string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		v, err := h.quiz.StartQuiz(ctx, identityFor(userID), categoryID)
		if err != nil {
			return err
		}

		h.logger.Debug("quiz started",
			zap.Int64("user_id", userID),
			zap.String("category_id", categoryID),
		)

		return h.showQuestion(ctx, userID, chatID, messageID, v)
	}
}

func (h *Handler) handleAnswer(userID int64, messageID int, questionID string, option int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		v, err := h.quiz.Answer(ctx, identityFor(userID), questionID, &option)
		if err != nil {
			return err
		}
		if v.Question == nil {
			return h.handleCategories(messageID)(ctx, chatID)
		}

		_, err = h.reply(chatID, messageID, formatAnswered(v), buildNextKeyboard(v.IsLastQuestion()))
		return err
	}
}

func (h *Handler) handleNext(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		v, err := h.quiz.Next(ctx, identityFor(userID))
		if err != nil {
			return err
		}

		if v.Status == quiz.StatusComplete {
			return h.showResult(userID, chatID, messageID, v)
		}
		return h.showQuestion(ctx, userID, chatID, messageID, v)
	}
}

// handleRetry restarts the last played category, or falls back to the
// category picker when there is none.
func (h *Handler) handleRetry(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		cur, err := h.quiz.Current(ctx, identityFor(userID))
		if err != nil {
			return err
		}

		if cur.LastCategoryID == "" {
			return h.handleCategories(messageID)(ctx, chatID)
		}
		return h.handleStartQuiz(userID, messageID, cur.LastCategoryID)(ctx, chatID)
	}
}

func (h *Handler) showQuestion(ctx context.Context, userID, chatID int64, messageID int, v service.QuizView) error {
	if v.Question == nil {
		return h.handleCategories(messageID)(ctx, chatID)
	}

	id, err := h.reply(chatID, messageID, formatQuestion(v), buildAnswerKeyboard(*v.Question))
	if err != nil {
		return err
	}

	h.messages.Store(identityFor(userID).UserID, chatID, id, v.Question.ID)
	return nil
}

func (h *Handler) showResult(userID, chatID int64, messageID int, v service.QuizView) error {
	h.messages.Delete(identityFor(userID).UserID)

	_, err := h.reply(chatID, messageID, formatResult(v), buildResultKeyboard())
	return err
}
