package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func newQuestion(text string, publishedAt time.Time, choices ...string) *domain.Question {
	q := &domain.Question{ID: uuid.New(), Text: text, PublishedAt: publishedAt}
	for _, c := range choices {
		q.Choices = append(q.Choices, domain.Choice{ID: uuid.New(), QuestionID: q.ID, Text: c})
	}
	return q
}

func TestQuestionRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewQuestionRepository(db)

	now := time.Now().UTC().Truncate(time.Microsecond)
	old := newQuestion("Old question", now.Add(-30*24*time.Hour), "A", "B")
	recent := newQuestion("Recent question", now.Add(-time.Hour), "Yes", "No", "Maybe")
	future := newQuestion("Future question", now.Add(30*24*time.Hour), "X")
	for _, q := range []*domain.Question{old, recent, future} {
		require.NoError(t, repo.Save(ctx, q))
	}

	t.Run("get by id keeps choice order", func(t *testing.T) {
		got, err := repo.GetByID(ctx, recent.ID)
		require.NoError(t, err)
		assert.Equal(t, recent.Text, got.Text)
		assert.True(t, recent.PublishedAt.Equal(got.PublishedAt))
		require.Len(t, got.Choices, 3)
		assert.Equal(t, "Yes", got.Choices[0].Text)
		assert.Equal(t, "Maybe", got.Choices[2].Text)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	})

	t.Run("list published newest first", func(t *testing.T) {
		list, err := repo.ListPublished(ctx, now, 5)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, recent.ID, list[0].ID)
		assert.Equal(t, old.ID, list[1].ID)
		assert.Len(t, list[0].Choices, 3)
	})

	t.Run("list honours limit", func(t *testing.T) {
		list, err := repo.ListPublished(ctx, now, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, recent.ID, list[0].ID)
	})
}

func TestChoiceRepository_IncrementVotes(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	questions := NewQuestionRepository(db)
	choices := NewChoiceRepository(db)

	q := newQuestion("Concurrent", time.Now().Add(-time.Minute), "A", "B")
	require.NoError(t, questions.Save(ctx, q))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, choices.IncrementVotes(ctx, q.ID, q.Choices[0].ID))
		}()
	}
	wg.Wait()

	got, err := questions.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.Choices[0].Votes)
	assert.Equal(t, int64(0), got.Choices[1].Votes)

	err = choices.IncrementVotes(ctx, uuid.New(), q.Choices[0].ID)
	assert.ErrorIs(t, err, domain.ErrChoiceNotFound)
}

func TestUserRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := &domain.User{Username: "test", Email: "admin@gmail.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	got, err := repo.GetByUsername(ctx, "test")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin@gmail.com", got.Email)

	missing, err := repo.GetByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, &domain.User{Username: "test", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestAuthRepository(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	repo := NewAuthRepository(db)

	user := &domain.User{Username: "test", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, user))

	token := &domain.RefreshToken{UserID: user.ID, TokenHash: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.StoreRefreshToken(ctx, token))
	assert.NotEqual(t, uuid.Nil, token.ID)
	assert.False(t, token.CreatedAt.IsZero())

	got, err := repo.GetRefreshTokenByHash(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, token.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)
	assert.False(t, got.Revoked)

	require.NoError(t, repo.RevokeRefreshToken(ctx, token.ID))
	got, err = repo.GetRefreshTokenByHash(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	missing, err := repo.GetRefreshTokenByHash(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMigrateNamed(t *testing.T) {
	db := setupDB(t)

	assert.NoError(t, MigrateNamed(context.Background(), db, "create_questions"))
	assert.Error(t, MigrateNamed(context.Background(), db, "does_not_exist"))
}
