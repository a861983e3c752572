package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	// ListPublished returns questions published at or before the given time,
	// newest first.
	ListPublished(ctx context.Context, before time.Time, limit int) ([]*domain.Question, error)
}

type ChoiceRepository interface {
	IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) error
}

type CreateQuestionInput struct {
	Text        string
	PublishedAt *time.Time
	Choices     []string
}

type QuestionService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	Index(ctx context.Context) ([]*domain.Question, error)
	Detail(ctx context.Context, id string) (*domain.Question, error)
	Results(ctx context.Context, id string) (*domain.Question, []domain.ChoiceResult, error)
}

type VoteService interface {
	Vote(ctx context.Context, questionID, choiceID uuid.UUID) error
}
