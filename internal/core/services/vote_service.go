package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type voteService struct {
	questionRepo ports.QuestionRepository
	choiceRepo   ports.ChoiceRepository
	now          func() time.Time
}

func NewVoteService(questionRepo ports.QuestionRepository, choiceRepo ports.ChoiceRepository, now func() time.Time) ports.VoteService {
	if now == nil {
		now = time.Now
	}
	return &voteService{
		questionRepo: questionRepo,
		choiceRepo:   choiceRepo,
		now:          now,
	}
}

func (s *voteService) Vote(ctx context.Context, questionID, choiceID uuid.UUID) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}

	if !question.IsPublished(s.now()) {
		return domain.ErrQuestionNotFound
	}

	if _, ok := question.Choice(choiceID); !ok {
		return domain.ErrInvalidChoice
	}

	return s.choiceRepo.IncrementVotes(ctx, questionID, choiceID)
}
