package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock" whatever happens.
	defer h.answerCallback(cb.ID)

	if cb.Message == nil || cb.From == nil {
		return
	}

	userID := cb.From.ID
	messageID := cb.Message.MessageID
	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionCategories:
		fn = h.handleCategories(messageID)
	case actionCategory:
		fn = h.handleStartQuiz(userID, messageID, data.param(0))
	case actionAnswer:
		questionID, option, ok := parseAnswerCallback(data)
		if !ok {
			h.logger.Debug("invalid answer callback", zap.String("data", cb.Data))
			return
		}
		fn = h.handleAnswer(userID, messageID, questionID, option)
	case actionNext:
		fn = h.handleNext(userID, messageID)
	case actionRetry:
		fn = h.handleRetry(userID, messageID)
	case actionStats:
		fn = h.handleStats(userID, messageID, true)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, cb.Message.Chat.ID)
}

func (h *Handler) answerCallback(callbackID string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
