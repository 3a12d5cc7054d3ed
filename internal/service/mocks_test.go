package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Rsgr172026/KanbanMate/internal/model"
)

// Common test errors
var (
	ErrMockStore = errors.New("mock store error")
)

// MockTaskStore implements TaskStore with overridable functions.
type MockTaskStore struct {
	InsertFunc      func(ctx context.Context, t *model.Task) error
	ListByOwnerFunc func(ctx context.Context, ownerID, keyword string) ([]model.Task, error)
	FindByIDFunc    func(ctx context.Context, id string) (*model.Task, error)
	UpdateFunc      func(ctx context.Context, t *model.Task) error
	DeleteFunc      func(ctx context.Context, id string) error

	InsertCalls int
	UpdateCalls int
	DeleteCalls int
}

func (m *MockTaskStore) Insert(ctx context.Context, t *model.Task) error {
	m.InsertCalls++
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, t)
	}
	return nil
}

func (m *MockTaskStore) ListByOwner(ctx context.Context, ownerID, keyword string) ([]model.Task, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, keyword)
	}
	return nil, nil
}

func (m *MockTaskStore) FindByID(ctx context.Context, id string) (*model.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskStore) Update(ctx context.Context, t *model.Task) error {
	m.UpdateCalls++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	m.DeleteCalls++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// memUserStore is an in-memory UserStore with real semantics.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]model.User // keyed by id
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]model.User)}
}

func (s *memUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := u
	return &out, nil
}

func (s *memUserStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// memTaskStore is an in-memory TaskStore mirroring the repository's
// contract: owner-scoped listing, case-insensitive title keyword,
// newest first.
type memTaskStore struct {
	mu    sync.Mutex
	tasks map[string]model.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[string]model.Task)}
}

func (s *memTaskStore) Insert(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = *t
	return nil
}

func (s *memTaskStore) ListByOwner(_ context.Context, ownerID, keyword string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Task{}
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(keyword)) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memTaskStore) FindByID(_ context.Context, id string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	out := t
	return &out, nil
}

func (s *memTaskStore) Update(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = *t
	return nil
}

func (s *memTaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}
