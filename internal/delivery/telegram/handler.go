package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
)

// listenerTimeout bounds the work done for a timer event.
const listenerTimeout = 10 * time.Second

type Handler struct {
	bot        Bot
	logger     *zap.Logger
	quiz       QuizService
	dashboards DashboardService
	messages   MessageStorage
}

// NewHandler builds the handler and subscribes it to countdown events so
// question messages follow the server-side timer.
func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	dashboards DashboardService,
	messages MessageStorage,
) *Handler {
	h := &Handler{
		bot:        bot,
		logger:     logger,
		quiz:       quizService,
		dashboards: dashboards,
		messages:   messages,
	}

	quizService.OnTimeout(h.onTimeout)
	quizService.OnLevel(h.onLevel)

	return h
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		_ = h.send(newMessage(chatID, msgUnknownCommand))
		return
	}

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling(h.handleStart())(ctx, chatID)
	case "categories":
		_ = h.withErrorHandling(h.handleCategories(0))(ctx, chatID)
	case "stats":
		_ = h.withErrorHandling(h.handleStats(userID, 0, false))(ctx, chatID)
	case "help":
		_ = h.send(newMessage(chatID, msgHelp))
	default:
		_ = h.send(newMessage(chatID, msgUnknownCommand))
	}
}

// onTimeout reveals the answer on the question message once time runs out.
func (h *Handler) onTimeout(userID string, a entities.UserAnswer) {
	if _, ok := telegramUserID(userID); !ok {
		return
	}

	m, ok := h.messages.GetForQuestion(userID, a.QuestionID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), listenerTimeout)
	defer cancel()

	v, err := h.quiz.Current(ctx, entities.SignedInAs(userID))
	if err != nil || v.Question == nil || v.Question.ID != a.QuestionID {
		return
	}

	if _, err := h.reply(m.ChatID, m.MessageID, formatAnswered(v), buildNextKeyboard(v.IsLastQuestion())); err != nil {
		h.logger.Warn("failed to show timeout", zap.String("user_id", userID), zap.Error(err))
	}
}

// onLevel refreshes the countdown line when a threshold is crossed.
func (h *Handler) onLevel(userID, questionID string, level quiz.Level) {
	if level == quiz.LevelNormal {
		return
	}
	if _, ok := telegramUserID(userID); !ok {
		return
	}

	m, ok := h.messages.GetForQuestion(userID, questionID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), listenerTimeout)
	defer cancel()

	v, err := h.quiz.Current(ctx, entities.SignedInAs(userID))
	if err != nil || v.Question == nil || v.Question.ID != questionID || v.Answer != nil {
		return
	}

	if _, err := h.reply(m.ChatID, m.MessageID, formatQuestion(v), buildAnswerKeyboard(*v.Question)); err != nil {
		h.logger.Debug("failed to update countdown", zap.String("user_id", userID), zap.Error(err))
	}
}

// reply edits messageID in place, or sends a new message when it is 0.
// It returns the id of the message showing the text.
func (h *Handler) reply(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) (int, error) {
	if messageID == 0 {
		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}

		sent, err := h.bot.Send(msg)
		if err != nil {
			return 0, err
		}
		return sent.MessageID, nil
	}

	edit := newEdit(chatID, messageID, text)
	edit.ReplyMarkup = kb

	if _, err := h.bot.Send(edit); err != nil && !isNotModified(err) {
		return messageID, err
	}
	return messageID, nil
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
