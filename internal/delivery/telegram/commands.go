package telegram

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
)

// handleStart greets the user and lists the categories.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.send(newMessage(chatID, msgWelcome)); err != nil {
			return err
		}
		return h.handleCategories(0)(ctx, chatID)
	}
}

// handleCategories shows the category picker.
func (h *Handler) handleCategories(messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		categories, err := h.quiz.Categories(ctx)
		if err != nil {
			return err
		}

		if len(categories) == 0 {
			_, err := h.reply(chatID, messageID, msgNoCategories, nil)
			return err
		}

		_, err = h.reply(chatID, messageID, msgPickCategory, buildCategoriesKeyboard(categories))
		return err
	}
}

// handleStats shows the performance dashboard. refresh recomputes it.
func (h *Handler) handleStats(userID int64, messageID int, refresh bool) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering stats", zap.Int64("user_id", userID), zap.Bool("refresh", refresh))

		var (
			d   analytics.Dashboard
			err error
		)
		if refresh {
			d, err = h.dashboards.Refresh(ctx, identityFor(userID))
		} else {
			d, err = h.dashboards.Load(ctx, identityFor(userID))
		}
		if err != nil {
			return err
		}

		_, err = h.reply(chatID, messageID, formatDashboard(d), buildStatsKeyboard())
		return err
	}
}
