package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/aliskhannn/nqesh-reviewer/internal/domain/entities"
)

// CatalogService serves the public study material: flash cards and
// reference documents.
type CatalogService struct {
	categories CategoryRepository
	references ReferenceRepository
}

func NewCatalogService(categories CategoryRepository, references ReferenceRepository) *CatalogService {
	return &CatalogService{categories: categories, references: references}
}

// Deck returns one flash card per question of the category.
func (s *CatalogService) Deck(ctx context.Context, categoryID string, shuffle bool) ([]entities.Flashcard, error) {
	category, err := s.categories.GetWithQuestions(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}

	cards := make([]entities.Flashcard, 0, len(category.Questions))
	for _, q := range category.Questions {
		cards = append(cards, entities.NewFlashcard(q))
	}

	if shuffle {
		rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	}

	return cards, nil
}

// References lists the reference documents.
func (s *CatalogService) References(ctx context.Context) ([]entities.ReferenceDocument, error) {
	docs, err := s.references.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	return docs, nil
}
