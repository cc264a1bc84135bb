package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// buildCategoriesKeyboard builds one button per category.
func buildCategoriesKeyboard(categories []entities.Category) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		label := c.Name
		if c.Icon != "" {
			label = c.Icon + " " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildCategoryCallback(c.ID)),
		))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildAnswerKeyboard builds a row of option letters for a question.
func buildAnswerKeyboard(q entities.Question) *tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i := range q.Options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(optionLetter(i), buildAnswerCallback(q.ID, i)))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}

// buildNextKeyboard builds keyboard shown under an answered question.
func buildNextKeyboard(last bool) *tgbotapi.InlineKeyboardMarkup {
	label := "Next question ▶️"
	if last {
		label = "See results 🏁"
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildNextCallback()),
		),
	)
	return &kb
}

// buildResultKeyboard builds keyboard for quiz results screen.
func buildResultKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", buildRetryCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My stats", buildStatsCallback()),
			tgbotapi.NewInlineKeyboardButtonData("📚 Categories", buildCategoriesCallback()),
		),
	)
	return &kb
}

// buildStatsKeyboard builds keyboard for the stats screen.
func buildStatsKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildStatsCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Categories", buildCategoriesCallback()),
		),
	)
	return &kb
}

// buildHomeKeyboard offers a way back after an error.
func buildHomeKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Categories", buildCategoriesCallback()),
		),
	)
	return &kb
}
