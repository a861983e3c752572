// Package portstest provides in-memory implementations of the repository
// ports for tests of the services and the HTTP adapter.
package portstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

var (
	_ ports.QuestionRepository = (*QuestionRepo)(nil)
	_ ports.ChoiceRepository   = (*QuestionRepo)(nil)
	_ ports.UserRepository     = (*UserRepo)(nil)
	_ ports.AuthRepository     = (*AuthRepo)(nil)
)

// QuestionRepo stores questions with their choices and doubles as the
// choice repository.
type QuestionRepo struct {
	mu        sync.Mutex
	questions map[uuid.UUID]*domain.Question
}

func NewQuestionRepo() *QuestionRepo {
	return &QuestionRepo{questions: make(map[uuid.UUID]*domain.Question)}
}

func (r *QuestionRepo) Save(ctx context.Context, q *domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (r *QuestionRepo) ListPublished(ctx context.Context, before time.Time, limit int) ([]*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Question
	for _, q := range r.questions {
		if !q.PublishedAt.After(before) {
			out = append(out, cloneQuestion(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *QuestionRepo) IncrementVotes(ctx context.Context, questionID, choiceID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[questionID]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			q.Choices[i].Votes++
			return nil
		}
	}
	return domain.ErrChoiceNotFound
}

func cloneQuestion(q *domain.Question) *domain.Question {
	cp := *q
	cp.Choices = append([]domain.Choice(nil), q.Choices...)
	return &cp
}

// UserRepo keys users by username and rejects duplicates like the
// unique index does.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*domain.User)}
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[username], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return domain.ErrUserAlreadyExists
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.users[user.Username] = user
	return nil
}

// AuthRepo keeps refresh tokens by hash.
type AuthRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
	err    error
}

func NewAuthRepo() *AuthRepo {
	return &AuthRepo{tokens: make(map[string]*domain.RefreshToken)}
}

// Fail makes every later call return err, the way a lost database
// connection would. Passing nil restores the repo.
func (r *AuthRepo) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *AuthRepo) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *AuthRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.tokens[tokenHash], nil
}

func (r *AuthRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, t := range r.tokens {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}
