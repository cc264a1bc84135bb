package rest

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter wires the routes. Per-user routes resolve the caller from the
// bearer token; without one the caller is anonymous and the services
// reject the call.
func NewRouter(h *Handler, verifier TokenVerifier, logger *zap.Logger, cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/categories", h.ListCategories)
		api.GET("/categories/:id/flashcards", h.Flashcards)
		api.GET("/references", h.References)
	}

	user := api.Group("", authenticate(verifier))

	q := user.Group("/quiz")
	{
		q.GET("", h.CurrentQuiz)
		q.DELETE("", h.AbandonQuiz)
		q.POST("/start", h.StartQuiz)
		q.POST("/answer", h.AnswerQuestion)
		q.POST("/next", h.NextQuestion)
		q.POST("/complete", h.CompleteQuiz)
		q.POST("/reset", h.ResetQuiz)
		q.GET("/result", h.QuizResult)
	}

	user.GET("/dashboard", h.Dashboard)
	user.POST("/dashboard/refresh", h.RefreshDashboard)
	user.GET("/results", h.RecentResults)
	user.DELETE("/history", h.ResetHistory)

	b := user.Group("/bookmarks")
	{
		b.GET("", h.ListBookmarks)
		b.GET("/:questionId", h.BookmarkStatus)
		b.POST("/:questionId", h.AddBookmark)
		b.DELETE("/:questionId", h.RemoveBookmark)
	}

	n := user.Group("/notes")
	{
		n.GET("", h.ListNotes)
		n.POST("", h.CreateNote)
		n.PUT("/:id", h.UpdateNote)
		n.DELETE("/:id", h.DeleteNote)
	}

	return r
}
