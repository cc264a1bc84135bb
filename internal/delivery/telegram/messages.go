// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
	"github.com/aliskhannn/nqesh-reviewer/internal/service"
)

// Messages are stored pre-escaped for MarkdownV2.
var (
	msgWelcome = bold("NQESH Reviewer Pro") + md(" helps you prepare for the National Qualifying Examination for School Heads.") +
		"\n\n" + md("Pick a category, answer each question within 2 minutes and review the explanation. Use /stats to see how you are doing.")
	msgHelp = md("/categories: pick a category and start a quiz\n/stats: your performance dashboard\n/help: this message")

	msgPickCategory     = md("📚 Choose a category:")
	msgNoCategories     = md("No categories are available yet. Please check back later.")
	msgNoQuestions      = md("This category has no questions yet. Please pick another one.")
	msgCategoryNotFound = md("That category is no longer available. Please pick another one.")
	msgNoQuiz           = md("There is no quiz in progress. Pick a category to start one.")
	msgAlreadyAnswered  = md("This question has already been answered.")
	msgInvalidOption    = md("That option is not available for this question.")
	msgInternalError    = md("Something went wrong. Please try again.")
	msgUnknownCommand   = md("Unknown command.\n\n") + msgHelp
	msgSaveFailed       = md("⚠️ Your result could not be saved yet. It will be retried automatically.")
	msgSavePending      = md("💾 Saving your result...")
	msgNoStats          = md("No quizzes yet. Pick a category to start your first one.")
)

const barLength = 20

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func writeQuestion(sb *strings.Builder, v service.QuizView) {
	sb.WriteString(bold(v.CategoryName))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Question %d of %d", v.QuestionIndex+1, v.TotalQuestions)))
	sb.WriteString("\n\n")
	sb.WriteString(md(v.Question.Prompt))
	sb.WriteString("\n\n")

	for i, option := range v.Question.Options {
		sb.WriteString(bold(optionLetter(i) + "."))
		sb.WriteString(" ")
		sb.WriteString(md(option))
		sb.WriteString("\n")
	}
}

// formatQuestion renders an unanswered question with its countdown line.
func formatQuestion(v service.QuizView) string {
	var sb strings.Builder
	writeQuestion(&sb, v)

	sb.WriteString("\n")
	switch v.TimerLevel {
	case quiz.LevelCritical.String():
		sb.WriteString(bold(fmt.Sprintf("⚠️ Less than %d seconds left!", quiz.CriticalThreshold)))
	case quiz.LevelWarning.String():
		sb.WriteString(bold(fmt.Sprintf("⏳ Less than %d seconds left", quiz.WarningThreshold)))
	default:
		sb.WriteString(md(fmt.Sprintf("⏱ You have %d seconds.", v.TimeRemaining)))
	}

	return sb.String()
}

// formatAnswered renders a question with the verdict and explanation.
func formatAnswered(v service.QuizView) string {
	var sb strings.Builder
	writeQuestion(&sb, v)
	sb.WriteString("\n")

	switch {
	case v.Answer == nil:
	case v.Answer.TimedOut():
		sb.WriteString(bold("⌛ Time's up!"))
	case v.Answer.IsCorrect:
		sb.WriteString(bold("✅ Correct!"))
	default:
		sb.WriteString(bold(fmt.Sprintf("❌ Incorrect. You chose %s.", optionLetter(*v.Answer.SelectedOption))))
	}
	sb.WriteString("\n")

	if correct, ok := v.Question.CorrectOption(); ok {
		sb.WriteString(md(fmt.Sprintf("Correct answer: %s. %s", optionLetter(v.Question.CorrectAnswer), correct)))
	} else {
		sb.WriteString(md("The correct answer for this question is unavailable."))
	}

	if v.Question.Explanation != "" {
		sb.WriteString("\n\n")
		sb.WriteString(md(v.Question.Explanation))
	}
	if v.Question.Citation != "" {
		sb.WriteString("\n")
		sb.WriteString(italic(v.Question.Citation))
	}

	return sb.String()
}

// formatResult renders the summary of a completed attempt.
func formatResult(v service.QuizView) string {
	var sb strings.Builder

	sb.WriteString(bold("🏁 Quiz complete: " + v.CategoryName))
	sb.WriteString("\n\n")

	score, total, timedOut := v.Score, v.TotalQuestions, 0
	if v.Result != nil {
		score, total = v.Result.Score, v.Result.TotalQuestions
		for _, a := range v.Result.Answers {
			if a.TimedOut() {
				timedOut++
			}
		}
	}

	sb.WriteString(md(fmt.Sprintf("Score: %d / %d (%.1f%%)", score, total, v.Percentage)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(score, total, barLength)))
	sb.WriteString("\n")
	if timedOut > 0 {
		sb.WriteString(md(fmt.Sprintf("⌛ Timed out: %d", timedOut)))
		sb.WriteString("\n")
	}

	switch v.SaveStatus {
	case service.SaveFailed:
		sb.WriteString("\n")
		sb.WriteString(msgSaveFailed)
	case service.SavePending:
		sb.WriteString("\n")
		sb.WriteString(msgSavePending)
	}

	return sb.String()
}

// formatDashboard renders the headline figures of the dashboard.
func formatDashboard(d analytics.Dashboard) string {
	if d.Summary.TotalQuizzes == 0 {
		return msgNoStats
	}

	s := d.Summary

	var sb strings.Builder
	sb.WriteString(bold("📊 Your performance"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("📝 Quizzes taken: %d", s.TotalQuizzes)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("📈 Average score: %.1f%%", s.AverageScore)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("🏆 Best score: %.1f%%", s.BestScore)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("🎯 Accuracy: %d / %d (%.1f%%)", s.TotalCorrect, s.TotalAnswered, s.OverallAccuracy)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(s.TotalCorrect, s.TotalAnswered, barLength)))
	sb.WriteString("\n")
	if s.TimedOut > 0 {
		sb.WriteString(md(fmt.Sprintf("⌛ Timed out: %d", s.TimedOut)))
		sb.WriteString("\n")
	}

	if len(d.CategoryPerformance) > 0 {
		sb.WriteString("\n")
		sb.WriteString(bold("By category"))
		sb.WriteString("\n")
		for _, c := range d.CategoryPerformance {
			sb.WriteString(md(fmt.Sprintf("• %s: %.1f%% average, %d quizzes", c.CategoryName, c.AveragePercentage, c.Attempts)))
			sb.WriteString("\n")
		}
	}

	if line := trendLine(d.Trend); line != "" {
		sb.WriteString("\n")
		sb.WriteString(md(line))
		sb.WriteString("\n")
	}

	return sb.String()
}

func trendLine(points []analytics.TrendPoint) string {
	if len(points) < analytics.MinTrendPoints {
		return ""
	}

	change := points[len(points)-1].Trend - points[0].Trend
	switch {
	case change >= 1:
		return fmt.Sprintf("📈 Trend: improving (+%.1f points)", change)
	case change <= -1:
		return fmt.Sprintf("📉 Trend: declining (%.1f points)", change)
	default:
		return "➡️ Trend: steady"
	}
}

// buildProgressBar creates ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}
	if filled < 0 {
		filled = 0
	}

	empty := length - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
