package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/nqesh-reviewer/internal/service"
)

type flashcardsQuery struct {
	Shuffle bool `form:"shuffle"`
}

type noteRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	CategoryID *string `json:"categoryId"`
}

func (r noteRequest) input() service.NoteInput {
	return service.NoteInput{
		Title:      r.Title,
		Content:    r.Content,
		CategoryID: r.CategoryID,
	}
}

func (h *Handler) Flashcards(c *gin.Context) {
	var q flashcardsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, err)
		return
	}

	cards, err := h.catalog.Deck(c.Request.Context(), c.Param("id"), q.Shuffle)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flashcards": cards})
}

func (h *Handler) References(c *gin.Context) {
	docs, err := h.catalog.References(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"references": docs})
}

func (h *Handler) ListBookmarks(c *gin.Context) {
	bookmarks, err := h.bookmarks.List(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}

func (h *Handler) BookmarkStatus(c *gin.Context) {
	questionID := c.Param("questionId")

	ok, err := h.bookmarks.IsBookmarked(c.Request.Context(), identity(c), questionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questionId": questionID, "bookmarked": ok})
}

func (h *Handler) AddBookmark(c *gin.Context) {
	b, err := h.bookmarks.Add(c.Request.Context(), identity(c), c.Param("questionId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) RemoveBookmark(c *gin.Context) {
	if err := h.bookmarks.Remove(c.Request.Context(), identity(c), c.Param("questionId")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListNotes(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *Handler) CreateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	n, err := h.notes.Create(c.Request.Context(), identity(c), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) UpdateNote(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	n, err := h.notes.Update(c.Request.Context(), identity(c), id, req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNote(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.notes.Delete(c.Request.Context(), identity(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func noteID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
