package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

// Store persists one identity's project collection. Every variant offers the
// same four operations, so callers never need to know which one is active.
type Store interface {
	// Subscribe opens a stream of full collection snapshots.
	Subscribe(ctx context.Context) (*Subscription, error)

	// Create stores draft as a new project and returns its id.
	Create(ctx context.Context, draft domain.Project) (Ack, error)

	// Replace overwrites the whole project stored under id.
	Replace(ctx context.Context, id string, p domain.Project) (Ack, error)

	// Remove deletes the project under id unless it is the last one.
	Remove(ctx context.Context, id string) (Ack, error)
}

// Backend is the persistence variant chosen at startup. It hands out stores
// scoped to a single identity.
type Backend interface {
	Name() string
	ForUser(uid string) Store
	Ping(ctx context.Context) error
}

// Ack acknowledges a successful write. When Snapshot is non-nil it is the
// collection as it stands after the write and should be applied directly;
// otherwise the change will arrive through the subscription.
type Ack struct {
	ID       string
	Snapshot []domain.Project
}

// Subscription delivers snapshots in the order they were produced. After a
// value is sent on Errors the stream is finished and both channels close.
type Subscription struct {
	Snapshots <-chan []domain.Project
	Errors    <-chan error

	cancel context.CancelFunc
	done   chan struct{}
}

// Close releases the subscription and waits for its producer to exit.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Done is closed once the producer has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// emitter is handed to producers started by startSubscription.
type emitter struct {
	ctx       context.Context
	snapshots chan []domain.Project
	errs      chan error
}

// emit sends a snapshot; it reports false once the subscription is closed.
func (e *emitter) emit(projects []domain.Project) bool {
	select {
	case e.snapshots <- projects:
		return true
	case <-e.ctx.Done():
		return false
	}
}

// fail reports a terminal stream error. Errors caused by Close are dropped.
func (e *emitter) fail(err error) {
	if e.ctx.Err() != nil {
		return
	}
	select {
	case e.errs <- err:
	case <-e.ctx.Done():
	}
}

func startSubscription(parent context.Context, produce func(e *emitter)) *Subscription {
	ctx, cancel := context.WithCancel(parent)
	snapshots := make(chan []domain.Project)
	errs := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(snapshots)
		defer close(errs)
		produce(&emitter{ctx: ctx, snapshots: snapshots, errs: errs})
	}()

	return &Subscription{Snapshots: snapshots, Errors: errs, cancel: cancel, done: done}
}

// NewSubscription starts produce on its own goroutine with emit and fail
// bound to a fresh subscription. It lets stores outside this package reuse
// the same stream semantics.
func NewSubscription(parent context.Context, produce func(ctx context.Context, emit func([]domain.Project) bool, fail func(error))) *Subscription {
	return startSubscription(parent, func(e *emitter) {
		produce(e.ctx, e.emit, e.fail)
	})
}

// sortByID orders a remote snapshot deterministically; document stores do
// not guarantee enumeration order.
func sortByID(projects []domain.Project) []domain.Project {
	sort.SliceStable(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects
}

func isDomainErr(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrLastProject)
}
