package rest

import (
	"go.uber.org/zap"
)

// Handler serves the JSON API.
type Handler struct {
	logger     *zap.Logger
	quiz       QuizService
	dashboards DashboardService
	bookmarks  BookmarkService
	notes      NoteService
	catalog    CatalogService
	reset      ResetService
}

func NewHandler(
	logger *zap.Logger,
	quiz QuizService,
	dashboards DashboardService,
	bookmarks BookmarkService,
	notes NoteService,
	catalog CatalogService,
	reset ResetService,
) *Handler {
	return &Handler{
		logger:     logger,
		quiz:       quiz,
		dashboards: dashboards,
		bookmarks:  bookmarks,
		notes:      notes,
		catalog:    catalog,
		reset:      reset,
	}
}
