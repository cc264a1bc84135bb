package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
	"github.com/aliskhannn/nqesh-reviewer/internal/domain/quiz"
	"github.com/aliskhannn/nqesh-reviewer/internal/infra/postgres/repository"
	"github.com/aliskhannn/nqesh-reviewer/internal/service"
)

const (
	actionRetry  = "retry"
	actionHome   = "home"
	actionSignIn = "sign_in"
)

const (
	msgSignIn         = "Please sign in to continue."
	msgInternalError  = "Something went wrong. Please try again."
	msgInvalidRequest = "Invalid request."
)

// statusClientClosed is logged when the caller went away mid-request.
const statusClientClosed = 499

// errorBody always offers at least one way forward.
type errorBody struct {
	Error   string   `json:"error"`
	Actions []string `json:"actions"`
}

type errorClass struct {
	status  int
	actions []string
	public  bool // err.Error() is safe to show
}

func classify(err error) errorClass {
	switch {
	case errors.Is(err, service.ErrNotSignedIn):
		return errorClass{http.StatusUnauthorized, []string{actionSignIn, actionHome}, true}

	case errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, entities.ErrEmptyNoteTitle):
		return errorClass{http.StatusBadRequest, []string{actionRetry, actionHome}, true}

	case errors.Is(err, quiz.ErrNoQuestions),
		errors.Is(err, quiz.ErrNotInProgress),
		errors.Is(err, quiz.ErrWrongQuestion),
		errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, service.ErrQuizNotLoaded):
		return errorClass{http.StatusConflict, []string{actionHome}, true}

	case errors.Is(err, service.ErrNoResult),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrQuestionNotFound),
		errors.Is(err, repository.ErrNoteNotFound):
		return errorClass{http.StatusNotFound, []string{actionHome}, true}

	case errors.Is(err, context.Canceled):
		return errorClass{statusClientClosed, nil, false}

	default:
		return errorClass{http.StatusInternalServerError, []string{actionRetry, actionHome}, false}
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	class := classify(err)

	switch class.status {
	case statusClientClosed:
		c.AbortWithStatus(statusClientClosed)
		return
	case http.StatusInternalServerError:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("user_id", identity(c).UserID),
			zap.Error(err),
		)
	}

	msg := msgInternalError
	if class.public {
		msg = publicMessage(err)
	}

	c.AbortWithStatusJSON(class.status, errorBody{Error: msg, Actions: class.actions})
}

// publicMessage returns the innermost sentinel's text, without the
// wrapping context added on the way up.
func publicMessage(err error) string {
	for _, target := range []error{
		service.ErrNotSignedIn,
		service.ErrQuizNotLoaded,
		service.ErrNoResult,
		quiz.ErrNoQuestions,
		quiz.ErrNotInProgress,
		quiz.ErrWrongQuestion,
		quiz.ErrAlreadyAnswered,
		quiz.ErrInvalidOption,
		entities.ErrEmptyNoteTitle,
		repository.ErrCategoryNotFound,
		repository.ErrQuestionNotFound,
		repository.ErrNoteNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.logger.Debug("bad request", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
		Error:   msgInvalidRequest,
		Actions: []string{actionRetry, actionHome},
	})
}
