package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type startQuizRequest struct {
	CategoryID string `json:"categoryId" binding:"required"`
}

type answerRequest struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedOption *int   `json:"selectedOption"` // null records a timeout
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.quiz.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) StartQuiz(c *gin.Context) {
	var req startQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	v, err := h.quiz.StartQuiz(c.Request.Context(), identity(c), req.CategoryID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) CurrentQuiz(c *gin.Context) {
	v, err := h.quiz.Current(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) AnswerQuestion(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	v, err := h.quiz.Answer(c.Request.Context(), identity(c), req.QuestionID, req.SelectedOption)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) NextQuestion(c *gin.Context) {
	v, err := h.quiz.Next(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) CompleteQuiz(c *gin.Context) {
	v, err := h.quiz.Complete(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) ResetQuiz(c *gin.Context) {
	v, err := h.quiz.Reset(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) AbandonQuiz(c *gin.Context) {
	if err := h.quiz.Abandon(c.Request.Context(), identity(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) QuizResult(c *gin.Context) {
	v, err := h.quiz.Result(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
