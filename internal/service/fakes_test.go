package service

import (
	"context"
	"sync"

	"github.com/saraswati/exam-gateway/internal/cache"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
)

// fakeUserStore implements SessionStore, TokenStore, and UserStore with an
// in-process keyed mutex standing in for the row lock.
type fakeUserStore struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	users map[string]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{
		locks: make(map[string]*sync.Mutex),
		users: make(map[string]*model.User),
	}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *fakeUserStore) keyLock(username string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[username]
	if !ok {
		l = &sync.Mutex{}
		s.locks[username] = l
	}
	return l
}

func (s *fakeUserStore) LockByUsername(ctx context.Context, username string, fn func(u *model.User) error) error {
	l := s.keyLock(username)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return repository.ErrUserNotFound
	}

	// fn mutates a copy; the write back happens only on success, mirroring
	// the transaction rollback semantics of the real store.
	candidate := *u
	if err := fn(&candidate); err != nil {
		return err
	}

	s.mu.Lock()
	*u = candidate
	s.mu.Unlock()
	return nil
}

func (s *fakeUserStore) GetByUsernameAndToken(ctx context.Context, username, token string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok || u.AuthToken == nil || *u.AuthToken != token {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) CreateBatch(ctx context.Context, users []model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		if _, exists := s.users[u.Username]; exists {
			return repository.ErrDuplicateUser
		}
	}
	for i := range users {
		u := users[i]
		s.users[u.Username] = &u
	}
	return nil
}

func (s *fakeUserStore) ListByMarksDesc(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Marks > out[i].Marks {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (s *fakeUserStore) get(username string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[username]
}

// fakeCache implements ConfigCache over a map, with a switch to simulate an
// unreachable backend.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	down bool
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) cache.Lookup {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return cache.Lookup{State: cache.Unavailable}
	}
	v, ok := c.data[key]
	if !ok {
		return cache.Lookup{State: cache.Miss}
	}
	return cache.Lookup{State: cache.Hit, Value: v}
}

func (c *fakeCache) Set(ctx context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return
	}
	c.data[key] = value
	c.sets++
}

// fakeExamStore implements ExamStore and counts store round-trips.
type fakeExamStore struct {
	mu    sync.Mutex
	exams map[string]model.Exam
	multi map[string]bool
	calls int
}

func newFakeExamStore(exams ...model.Exam) *fakeExamStore {
	s := &fakeExamStore{
		exams: make(map[string]model.Exam),
		multi: make(map[string]bool),
	}
	for _, e := range exams {
		s.exams[e.Prefix] = e
	}
	return s
}

func (s *fakeExamStore) GetByPrefix(ctx context.Context, prefix string) (*model.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.multi[prefix] {
		return nil, repository.ErrMultipleExams
	}
	e, ok := s.exams[prefix]
	if !ok {
		return nil, repository.ErrExamNotFound
	}
	return &e, nil
}

func (s *fakeExamStore) ListAll(ctx context.Context) ([]model.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Exam
	for _, e := range s.exams {
		out = append(out, e)
	}
	return out, nil
}

func (s *fakeExamStore) storeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
