package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/analytics"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
	"github.com/aliskhannn/nqesh-reviewer/internal/service"
	"github.com/aliskhannn/nqesh-reviewer/internal/storage"
)

type fakeBot struct {
	mu     sync.Mutex
	sent   []tgbotapi.Chattable
	nextID int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: 1000 + b.nextID}, nil
}

func (b *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) StopReceivingUpdates() {}

func (b *fakeBot) last() tgbotapi.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return nil
	}
	return b.sent[len(b.sent)-1]
}

func (b *fakeBot) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

var testQuestion = entities.Question{
	ID:            "q1",
	CategoryID:    "c1",
	Prompt:        "Which office issues DepEd Orders?",
	Options:       []string{"Secretary", "Region", "Division", "School"},
	CorrectAnswer: 0,
	Explanation:   "Orders come from the Office of the Secretary.",
}

type fakeQuiz struct {
	startErr  error
	selected  *int
	onTimeout service.TimeoutListener
}

func (f *fakeQuiz) Categories(context.Context) ([]entities.Category, error) {
	return []entities.Category{{ID: "c1", Name: "Instructional Leadership"}}, nil
}

func (f *fakeQuiz) StartQuiz(_ context.Context, _ entities.Identity, categoryID string) (service.QuizView, error) {
	if f.startErr != nil {
		return service.QuizView{}, f.startErr
	}
	q := testQuestion.WithoutAnswer()
	return service.QuizView{
		Status:         quiz.StatusInProgress,
		CategoryID:     categoryID,
		CategoryName:   "Instructional Leadership",
		TotalQuestions: 2,
		Question:       &q,
		TimeRemaining:  120,
		TimerLevel:     quiz.LevelNormal.String(),
	}, nil
}

func (f *fakeQuiz) Answer(_ context.Context, _ entities.Identity, questionID string, selected *int) (service.QuizView, error) {
	f.selected = selected
	return f.answeredView(selected), nil
}

func (f *fakeQuiz) answeredView(selected *int) service.QuizView {
	q := testQuestion
	return service.QuizView{
		Status:         quiz.StatusInProgress,
		CategoryName:   "Instructional Leadership",
		TotalQuestions: 2,
		Question:       &q,
		Answer:         &entities.UserAnswer{QuestionID: q.ID, SelectedOption: selected, IsCorrect: q.IsCorrect(selected)},
	}
}

func (f *fakeQuiz) Next(context.Context, entities.Identity) (service.QuizView, error) {
	return service.QuizView{
		Status:         quiz.StatusComplete,
		CategoryName:   "Instructional Leadership",
		TotalQuestions: 2,
		Result:         &entities.QuizResult{Score: 1, TotalQuestions: 2},
		Percentage:     50,
		SaveStatus:     service.SaveFailed,
	}, nil
}

func (f *fakeQuiz) Current(context.Context, entities.Identity) (service.QuizView, error) {
	return f.answeredView(nil), nil
}

func (f *fakeQuiz) OnTimeout(l service.TimeoutListener) { f.onTimeout = l }

func (f *fakeQuiz) OnLevel(service.LevelListener) {}

type fakeDashboards struct{}

func (fakeDashboards) Load(context.Context, entities.Identity) (analytics.Dashboard, error) {
	return analytics.Dashboard{}, nil
}

func (fakeDashboards) Refresh(context.Context, entities.Identity) (analytics.Dashboard, error) {
	return analytics.Dashboard{}, nil
}

func newTestHandler() (*Handler, *fakeBot, *fakeQuiz, *storage.MessageStorage) {
	bot := &fakeBot{}
	q := &fakeQuiz{}
	messages := storage.NewMessageStorage()
	return NewHandler(bot, zap.NewNop(), q, fakeDashboards{}, messages), bot, q, messages
}

func callback(data string, messageID int) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 42},
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: 42}},
		Data:    data,
	}
}

func TestHandler_CategoryStartsQuiz(t *testing.T) {
	h, bot, _, messages := newTestHandler()

	h.handleCallback(context.Background(), callback(buildCategoryCallback("c1"), 7))

	edit, ok := bot.last().(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("want message edit, got %T", bot.last())
	}
	if edit.MessageID != 7 || !strings.Contains(edit.Text, "Question 1 of 2") {
		t.Errorf("unexpected edit: id=%d text=%q", edit.MessageID, edit.Text)
	}
	if strings.Contains(edit.Text, "Correct answer") {
		t.Error("answer revealed before answering")
	}

	m, ok := messages.GetForQuestion("tg-42", "q1")
	if !ok || m.MessageID != 7 || m.ChatID != 42 {
		t.Errorf("question message not tracked: %+v %v", m, ok)
	}
}

func TestHandler_AnswerShowsVerdict(t *testing.T) {
	h, bot, q, _ := newTestHandler()

	h.handleCallback(context.Background(), callback(buildAnswerCallback("q1", 2), 7))

	if q.selected == nil || *q.selected != 2 {
		t.Fatalf("answer not forwarded: %v", q.selected)
	}
	edit, ok := bot.last().(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("want message edit, got %T", bot.last())
	}
	if !strings.Contains(edit.Text, "Incorrect") || !strings.Contains(edit.Text, "Correct answer: A") {
		t.Errorf("unexpected verdict: %q", edit.Text)
	}
}

func TestHandler_CompletionWarnsWhenUnsaved(t *testing.T) {
	h, bot, _, _ := newTestHandler()

	h.handleCallback(context.Background(), callback(buildNextCallback(), 7))

	edit, ok := bot.last().(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("want message edit, got %T", bot.last())
	}
	if !strings.Contains(edit.Text, msgSaveFailed) {
		t.Errorf("result without save warning: %q", edit.Text)
	}
}

func TestHandler_StartErrorOffersWayBack(t *testing.T) {
	h, bot, q, _ := newTestHandler()
	q.startErr = quiz.ErrNoQuestions

	h.handleCallback(context.Background(), callback(buildCategoryCallback("c1"), 7))

	msg, ok := bot.last().(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("want new message, got %T", bot.last())
	}
	if msg.Text != msgNoQuestions {
		t.Errorf("text = %q, want %q", msg.Text, msgNoQuestions)
	}
	if _, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); !ok {
		t.Error("error message without keyboard")
	}
}

func TestHandler_TimeoutEditsOnlyTelegramUsers(t *testing.T) {
	_, bot, q, messages := newTestHandler()
	messages.Store("tg-42", 42, 7, "q1")
	messages.Store("web-user", 42, 8, "q1")

	q.onTimeout("web-user", entities.UserAnswer{QuestionID: "q1"})
	if bot.count() != 0 {
		t.Fatal("edited a message for a non-Telegram user")
	}

	q.onTimeout("tg-42", entities.UserAnswer{QuestionID: "q1"})
	edit, ok := bot.last().(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("want message edit, got %T", bot.last())
	}
	if edit.MessageID != 7 || !strings.Contains(edit.Text, md("Time's up!")) {
		t.Errorf("unexpected timeout edit: id=%d text=%q", edit.MessageID, edit.Text)
	}
}

func TestFormatDashboard_Empty(t *testing.T) {
	if got := formatDashboard(analytics.Dashboard{}); got != msgNoStats {
		t.Errorf("got %q", got)
	}
}
