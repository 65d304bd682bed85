package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/repository"
)

// Session owns the process-wide identity. Every remote read and write is
// addressed under the uid it reports, and only while it is Ready.
type Session struct {
	provider Provider
	file     *repository.SessionFile
	token    string
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	status   domain.Status
	watchers map[int]chan domain.Status
	nextID   int
}

type SessionOptions struct {
	// Token is an optional pre-issued ID token tried before anonymous sign-in.
	Token string
	File  *repository.SessionFile
	Now   func() time.Time
}

// NewSession creates a session in the Uninitialized state. A nil provider
// means there is no remote configuration: Start ends in Unavailable.
func NewSession(provider Provider, opts SessionOptions, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		provider: provider,
		file:     opts.File,
		token:    opts.Token,
		log:      log.Named("session"),
		now:      now,
		status:   domain.Status{State: domain.StateUninitialized},
		watchers: make(map[int]chan domain.Status),
	}
}

// Status returns the current state.
func (s *Session) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Changes registers a watcher. The channel always holds the latest status:
// a slow reader skips intermediate transitions but never misses the last one.
// The returned func unregisters the watcher.
func (s *Session) Changes() (<-chan domain.Status, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan domain.Status, 1)
	ch <- s.status
	s.watchers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

// Start establishes an identity: the stored session first, then the
// pre-issued token, then a new anonymous user. It is a no-op when the session
// is already Ready or Unavailable.
func (s *Session) Start(ctx context.Context) domain.Status {
	s.mu.Lock()
	switch s.status.State {
	case domain.StateReady, domain.StateUnavailable, domain.StateInitializing:
		st := s.status
		s.mu.Unlock()
		return st
	}
	if s.provider == nil {
		s.setLocked(domain.Status{State: domain.StateUnavailable})
		st := s.status
		s.mu.Unlock()
		s.log.Info("no remote identity configured, running in local mode")
		return st
	}
	s.setLocked(domain.Status{State: domain.StateInitializing})
	s.mu.Unlock()

	id, err := s.establish(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Error("sign-in failed", zap.Error(err))
		s.setLocked(domain.Status{State: domain.StateFailed, Err: err})
		return s.status
	}

	if err := s.file.Save(id); err != nil {
		s.log.Warn("could not persist session", zap.Error(err))
	}
	s.log.Info("signed in",
		zap.String("uid", id.UID),
		zap.String("method", string(id.Method)),
		zap.Bool("anonymous", id.Anonymous))
	s.setLocked(domain.Status{State: domain.StateReady, Identity: &id})
	return s.status
}

func (s *Session) establish(ctx context.Context) (domain.Identity, error) {
	stored, ok, err := s.file.Load()
	if err != nil {
		s.log.Warn("ignoring unreadable session file", zap.Error(err))
	}
	if ok {
		acct, err := s.provider.LookupUser(ctx, stored.UID)
		switch {
		case err == nil && !acct.Disabled:
			return domain.Identity{
				UID:        acct.UID,
				Method:     domain.MethodSession,
				Anonymous:  acct.Anonymous,
				SignedInAt: s.now(),
			}, nil
		case err == nil:
			s.log.Info("stored user is disabled", zap.String("uid", stored.UID))
		default:
			s.log.Info("stored session rejected", zap.String("uid", stored.UID), zap.Error(err))
		}
		if err := s.file.Clear(); err != nil {
			s.log.Warn("could not clear session file", zap.Error(err))
		}
	}

	if s.token != "" {
		uid, err := s.provider.VerifyToken(ctx, s.token)
		if err == nil {
			return domain.Identity{UID: uid, Method: domain.MethodToken, SignedInAt: s.now()}, nil
		}
		s.log.Warn("token sign-in failed, falling back to anonymous", zap.Error(err))
	}

	uid, err := s.provider.CreateAnonymous(ctx)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrAuthFailure, err)
	}
	return domain.Identity{
		UID:        uid,
		Method:     domain.MethodAnonymous,
		Anonymous:  true,
		SignedInAt: s.now(),
	}, nil
}

// SignOut ends a Ready session and forgets the stored identity. Watchers see
// Uninitialized; Start may be called again afterwards.
func (s *Session) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.State != domain.StateReady {
		return domain.ErrNotReady
	}
	uid := s.status.UID()
	if err := s.file.Clear(); err != nil {
		s.log.Warn("could not clear session file", zap.Error(err))
	}
	s.setLocked(domain.Status{State: domain.StateUninitialized})
	s.log.Info("signed out", zap.String("uid", uid))
	return nil
}

// Revalidate confirms the Ready identity still exists and is enabled. A
// deleted or disabled user ends the session and a new identity is
// established in its place. Lookup errors leave the session untouched.
func (s *Session) Revalidate(ctx context.Context) error {
	st := s.Status()
	if st.State != domain.StateReady {
		return nil
	}

	acct, err := s.provider.LookupUser(ctx, st.UID())
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
	case err != nil:
		s.log.Warn("revalidation lookup failed", zap.String("uid", st.UID()), zap.Error(err))
		return err
	case acct.Disabled:
		err = domain.ErrUserDisabled
	default:
		return nil
	}

	s.log.Warn("identity no longer valid", zap.String("uid", st.UID()), zap.Error(err))
	if err := s.SignOut(); err != nil {
		return err
	}
	if next := s.Start(ctx); next.State != domain.StateReady {
		return next.Err
	}
	return nil
}

// setLocked records st and fans it out. Callers hold s.mu.
func (s *Session) setLocked(st domain.Status) {
	s.status = st
	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}
