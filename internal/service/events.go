package service

import (
	"context"
	"time"
)

const EventQuizCompleted = "quiz.completed"

// QuizCompletedEvent is published after a result is stored.
type QuizCompletedEvent struct {
	UserID         string    `json:"userId"`
	AttemptID      string    `json:"attemptId"`
	CategoryID     string    `json:"categoryId"`
	CategoryName   string    `json:"categoryName"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     float64   `json:"percentage"`
	CompletedAt    time.Time `json:"completedAt"`
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
