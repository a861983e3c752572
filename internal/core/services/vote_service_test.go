package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports/portstest"
)

func TestVote(t *testing.T) {
	repo := portstest.NewQuestionRepo()
	questions := NewQuestionService(repo, clock)
	votes := NewVoteService(repo, repo, clock)
	q := createQuestion(t, questions, "Vote question", -1)

	require.NoError(t, votes.Vote(context.Background(), q.ID, q.Choices[1].ID))
	require.NoError(t, votes.Vote(context.Background(), q.ID, q.Choices[1].ID))

	got, err := repo.GetByID(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Choices[0].Votes)
	assert.Equal(t, int64(2), got.Choices[1].Votes)
}

func TestVote_InvalidChoice(t *testing.T) {
	repo := portstest.NewQuestionRepo()
	questions := NewQuestionService(repo, clock)
	votes := NewVoteService(repo, repo, clock)
	q := createQuestion(t, questions, "Vote question", -1)

	err := votes.Vote(context.Background(), q.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)
}

func TestVote_UnpublishedOrUnknownQuestion(t *testing.T) {
	repo := portstest.NewQuestionRepo()
	questions := NewQuestionService(repo, clock)
	votes := NewVoteService(repo, repo, clock)
	future := createQuestion(t, questions, "Future", 3)

	err := votes.Vote(context.Background(), future.ID, future.Choices[0].ID)
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	err = votes.Vote(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}
