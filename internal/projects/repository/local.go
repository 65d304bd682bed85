package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

// LocalStore keeps projects in process memory (demo mode). The data is lost
// on restart. Writes acknowledge with the resulting snapshot because nothing
// is pushed through the subscription after its single startup emission.
type LocalStore struct {
	mu       sync.Mutex
	projects []domain.Project
}

// NewLocalStore creates a store holding the given seed projects.
func NewLocalStore(seed ...domain.Project) *LocalStore {
	return &LocalStore{projects: domain.CloneAll(seed)}
}

func (s *LocalStore) Name() string { return "local" }

// ForUser ignores uid: local mode has a single anonymous owner.
func (s *LocalStore) ForUser(string) Store { return s }

func (s *LocalStore) Ping(context.Context) error { return nil }

// Subscribe emits the current collection exactly once and then stays open
// until closed.
func (s *LocalStore) Subscribe(ctx context.Context) (*Subscription, error) {
	s.mu.Lock()
	initial := domain.CloneAll(s.projects)
	s.mu.Unlock()

	return startSubscription(ctx, func(e *emitter) {
		if !e.emit(initial) {
			return
		}
		<-e.ctx.Done()
	}), nil
}

func (s *LocalStore) Create(_ context.Context, draft domain.Project) (Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := draft.Clone()
	p.ID = "local-" + uuid.NewString()
	s.projects = append(s.projects, p)
	return Ack{ID: p.ID, Snapshot: domain.CloneAll(s.projects)}, nil
}

func (s *LocalStore) Replace(_ context.Context, id string, p domain.Project) (Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Ack{}, fmt.Errorf("replace %s: %w", id, domain.ErrNotFound)
	}
	next := p.Clone()
	next.ID = id
	s.projects[i] = next
	return Ack{ID: id, Snapshot: domain.CloneAll(s.projects)}, nil
}

func (s *LocalStore) Remove(_ context.Context, id string) (Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Ack{}, fmt.Errorf("remove %s: %w", id, domain.ErrNotFound)
	}
	if len(s.projects) <= 1 {
		return Ack{}, domain.ErrLastProject
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	return Ack{ID: id, Snapshot: domain.CloneAll(s.projects)}, nil
}

// Projects returns a copy of the current collection.
func (s *LocalStore) Projects() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneAll(s.projects)
}

func (s *LocalStore) index(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
