package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

// IndexSize is the number of questions shown on the index page.
const IndexSize = 5

type questionService struct {
	repo ports.QuestionRepository
	now  func() time.Time
}

// NewQuestionService builds a QuestionService. A nil clock means time.Now.
func NewQuestionService(repo ports.QuestionRepository, now func() time.Time) ports.QuestionService {
	if now == nil {
		now = time.Now
	}
	return &questionService{
		repo: repo,
		now:  now,
	}
}

func (s *questionService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: question text is required", domain.ErrValidation)
	}

	publishedAt := s.now()
	if input.PublishedAt != nil {
		publishedAt = *input.PublishedAt
	}

	question := &domain.Question{
		ID:          uuid.New(),
		Text:        text,
		PublishedAt: publishedAt,
	}

	for _, choiceText := range input.Choices {
		choiceText = strings.TrimSpace(choiceText)
		if choiceText == "" {
			continue
		}
		question.Choices = append(question.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: question.ID,
			Text:       choiceText,
		})
	}

	if len(question.Choices) == 0 {
		return nil, fmt.Errorf("%w: at least one choice is required", domain.ErrValidation)
	}

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

func (s *questionService) Index(ctx context.Context) ([]*domain.Question, error) {
	questions, err := s.repo.ListPublished(ctx, s.now(), IndexSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if questions == nil {
		questions = []*domain.Question{}
	}
	return questions, nil
}

// Detail hides questions that are not yet published behind ErrQuestionNotFound.
func (s *questionService) Detail(ctx context.Context, id string) (*domain.Question, error) {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidQuestionID
	}

	question, err := s.repo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	if !question.IsPublished(s.now()) {
		return nil, domain.ErrQuestionNotFound
	}

	return question, nil
}

func (s *questionService) Results(ctx context.Context, id string) (*domain.Question, []domain.ChoiceResult, error) {
	question, err := s.Detail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return question, question.Results(), nil
}
