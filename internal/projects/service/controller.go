package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	authdomain "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/repository"
)

const (
	DefaultRetryDelay    = 5 * time.Second
	DefaultSettleTimeout = 5 * time.Second
	inboxSize            = 64
)

// SessionSource reports identity transitions. The controller only talks to
// the store while the session is Ready (remote) or Unavailable (local).
type SessionSource interface {
	Changes() (<-chan authdomain.Status, func())
}

type Options struct {
	// Seed is created when a store's first snapshot is empty.
	Seed domain.Project
	// RetryDelay is the pause before resubscribing after a stream failure.
	RetryDelay time.Duration
	// SettleTimeout bounds how long an intent waits for its write to show
	// up in a snapshot before replying anyway.
	SettleTimeout time.Duration
	IDs           *domain.ItemIDs
	Now           func() time.Time
}

// Controller is the single owner of the project collection, the active
// project, the edit-mode flag and the error slot. All of that state lives on
// the goroutine running Run; everything else talks to it through the inbox.
type Controller struct {
	backend       repository.Backend
	sessions      SessionSource
	seed          domain.Project
	ids           *domain.ItemIDs
	log           *zap.Logger
	now           func() time.Time
	retryDelay    time.Duration
	settleTimeout time.Duration

	inbox   chan func()
	done    chan struct{}
	started atomic.Bool
	wg      sync.WaitGroup
	runCtx  context.Context

	current     atomic.Pointer[View]
	watchMu     sync.Mutex
	watchers    map[int]chan View
	nextWatcher int

	// Loop-owned from here on.
	session       authdomain.Status
	store         repository.Store
	storeUID      string
	gen           uint64
	sub           *repository.Subscription
	subSnapshots  <-chan []domain.Project
	subErrors     <-chan error
	subscribing   bool
	subFirst      bool
	seeded        bool
	retryTimer    *time.Timer
	loaded        bool
	projects      []domain.Project
	activeID      string
	pendingSelect string
	editMode      bool
	errSlot       *ErrorSlot
	version       uint64
	dirty         bool
	replies       []pendingReply
	awaiting      map[uint64]*awaiter
	nextAwait     uint64
	// inflight counts writes that are not settled yet. Queued intents run
	// one at a time and only while it is zero, so every read-modify-write
	// starts from a collection that already holds the previous write.
	inflight int
	queued   []func()
}

type result struct {
	view View
	err  error
}

type pendingReply struct {
	ch  chan<- result
	err error
}

// write is one store operation issued by an intent.
type write struct {
	op string
	do func(ctx context.Context, s repository.Store) (repository.Ack, error)
	// onAck runs on the loop after a successful write, before any
	// acknowledged snapshot is applied.
	onAck func(ack repository.Ack)
	// settled reports whether the current collection reflects the write.
	settled func(ack repository.Ack) bool
}

type awaiter struct {
	settled func(ack repository.Ack) bool
	ack     repository.Ack
	reply   chan<- result
	timer   *time.Timer
}

func New(backend repository.Backend, sessions SessionSource, opts Options, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = DefaultSettleTimeout
	}
	if opts.IDs == nil {
		opts.IDs = domain.NewItemIDs()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Controller{
		backend:       backend,
		sessions:      sessions,
		seed:          opts.Seed,
		ids:           opts.IDs,
		log:           log.Named("controller"),
		now:           opts.Now,
		retryDelay:    opts.RetryDelay,
		settleTimeout: opts.SettleTimeout,
		inbox:         make(chan func(), inboxSize),
		done:          make(chan struct{}),
		watchers:      make(map[int]chan View),
		session:       authdomain.Status{State: authdomain.StateUninitialized},
		awaiting:      make(map[uint64]*awaiter),
	}
	initial := c.buildView()
	c.current.Store(&initial)
	return c
}

// View returns the latest published view.
func (c *Controller) View() View {
	return *c.current.Load()
}

// Watch registers a view watcher. The channel holds the latest view; a slow
// reader skips intermediate versions. The returned func unregisters it.
func (c *Controller) Watch() (<-chan View, func()) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	id := c.nextWatcher
	c.nextWatcher++
	ch := make(chan View, 1)
	ch <- c.View()
	c.watchers[id] = ch

	return ch, func() {
		c.watchMu.Lock()
		defer c.watchMu.Unlock()
		delete(c.watchers, id)
	}
}

// Done is closed once Run has begun shutting down.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run drives the event loop until ctx is cancelled. It may only be called
// once.
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return errors.New("controller already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	c.runCtx = ctx

	changes, stopChanges := c.sessions.Changes()
	defer func() {
		stopChanges()
		c.closeSubscription()
		if c.retryTimer != nil {
			c.retryTimer.Stop()
		}
		c.failAwaiting(ErrStopped)
		c.flush()
		cancel()
		close(c.done)
		c.wg.Wait()
	}()

	c.log.Info("dashboard controller started", zap.String("backend", c.backend.Name()))
	for {
		select {
		case <-ctx.Done():
			c.log.Info("dashboard controller stopped")
			return nil
		case st := <-changes:
			c.onSession(st)
		case fn := <-c.inbox:
			fn()
		case snap, ok := <-c.subSnapshots:
			if !ok {
				c.subscriptionEnded()
				break
			}
			c.onSnapshot(snap)
		case err, ok := <-c.subErrors:
			if !ok {
				c.subscriptionEnded()
				break
			}
			c.subscriptionFailed(err)
		}
		c.runQueued()
		c.flush()
	}
}

// flush publishes a new view when state changed and then answers the intents
// handled in this iteration with it.
func (c *Controller) flush() {
	if c.dirty {
		c.publish()
		c.dirty = false
	}
	if len(c.replies) == 0 {
		return
	}
	v := c.View()
	for _, r := range c.replies {
		r.ch <- result{view: v, err: r.err}
	}
	c.replies = c.replies[:0]
}

func (c *Controller) publish() {
	c.version++
	v := c.buildView()
	v.Version = c.version
	c.current.Store(&v)
	recordStatus(v.Status)

	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	for _, ch := range c.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

func (c *Controller) respond(ch chan<- result, err error) {
	if ch == nil {
		return
	}
	c.replies = append(c.replies, pendingReply{ch: ch, err: err})
}

// post hands fn to the loop. It reports false once the loop is gone.
func (c *Controller) post(fn func()) bool {
	select {
	case c.inbox <- fn:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) goAsync(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(c.runCtx)
	}()
}

// do runs fn on the loop and waits for the reply it queues.
func (c *Controller) do(ctx context.Context, fn func(reply chan<- result)) (View, error) {
	reply := make(chan result, 1)
	select {
	case c.inbox <- func() { fn(reply) }:
	case <-ctx.Done():
		return c.View(), ctx.Err()
	case <-c.done:
		return c.View(), ErrStopped
	}

	select {
	case r := <-reply:
		return r.view, r.err
	case <-ctx.Done():
		return c.View(), ctx.Err()
	case <-c.done:
		return c.View(), ErrStopped
	}
}

// serial queues fn behind every write still in flight. Intents that derive a
// write from the current collection go through here.
func (c *Controller) serial(ctx context.Context, fn func(reply chan<- result)) (View, error) {
	return c.do(ctx, func(reply chan<- result) {
		c.queued = append(c.queued, func() {
			if err := ctx.Err(); err != nil {
				c.respond(reply, err)
				return
			}
			fn(reply)
		})
	})
}

func (c *Controller) runQueued() {
	for c.inflight == 0 && len(c.queued) > 0 {
		fn := c.queued[0]
		c.queued[0] = nil
		c.queued = c.queued[1:]
		fn()
	}
}

// settle marks one write as finished and answers its caller.
func (c *Controller) settle(reply chan<- result, err error) {
	c.inflight--
	c.respond(reply, err)
}

// Session handling

func (c *Controller) onSession(st authdomain.Status) {
	c.session = st
	c.dirty = true

	switch st.State {
	case authdomain.StateReady:
		if c.errSlot != nil && c.errSlot.Kind == KindAuthFailure {
			c.errSlot = nil
		}
		if c.store == nil || c.storeUID != st.UID() {
			c.attach(st.UID())
		}
	case authdomain.StateUnavailable:
		if c.store == nil {
			c.attach("")
		}
	case authdomain.StateFailed:
		c.detach()
		c.setError(KindAuthFailure, "Sign-in failed. The dashboard is unavailable.")
	default:
		c.detach()
	}
}

// attach points the controller at uid's store and subscribes.
func (c *Controller) attach(uid string) {
	c.detach()
	c.store = c.backend.ForUser(uid)
	c.storeUID = uid
	c.log.Info("attached to project store", zap.String("backend", c.backend.Name()), zap.String("uid", uid))
	c.openSubscription()
}

// detach drops the subscription and every piece of state that belongs to the
// previous identity. Writes still in flight for it are answered as stale.
func (c *Controller) detach() {
	c.closeSubscription()
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.failAwaiting(ErrStaleWrite)

	c.gen++
	c.store = nil
	c.storeUID = ""
	c.subscribing = false
	c.seeded = false
	c.loaded = false
	c.projects = nil
	c.activeID = ""
	c.pendingSelect = ""
	c.editMode = false
	ProjectsTotal.Set(0)
	c.dirty = true
}

// Subscription handling

func (c *Controller) openSubscription() {
	if c.store == nil || c.sub != nil || c.subscribing {
		return
	}
	c.subscribing = true
	gen, store := c.gen, c.store

	c.goAsync(func(ctx context.Context) {
		sub, err := store.Subscribe(ctx)
		posted := c.post(func() {
			if gen != c.gen {
				if sub != nil {
					sub.Close()
				}
				return
			}
			c.subscribing = false
			if err != nil {
				c.subscriptionFailed(err)
				return
			}
			c.sub = sub
			c.subSnapshots = sub.Snapshots
			c.subErrors = sub.Errors
			c.subFirst = true
		})
		if !posted && sub != nil {
			sub.Close()
		}
	})
}

func (c *Controller) closeSubscription() {
	if c.sub != nil {
		c.sub.Close()
	}
	c.sub = nil
	c.subSnapshots = nil
	c.subErrors = nil
}

func (c *Controller) subscriptionEnded() {
	var err error
	select {
	case err = <-c.subErrors:
	default:
	}
	if err == nil {
		err = errors.New("subscription closed")
	}
	c.subscriptionFailed(err)
}

// subscriptionFailed keeps the stale collection on screen, raises the banner
// and schedules a resubscribe.
func (c *Controller) subscriptionFailed(err error) {
	c.log.Warn("project subscription failed", zap.Error(err))
	SubscriptionErrors.Inc()
	c.closeSubscription()
	c.setError(KindSubscription, "Lost connection to the project store. Showing the last known data.")

	if c.retryTimer != nil {
		c.retryTimer.Stop()
	}
	gen := c.gen
	c.retryTimer = time.AfterFunc(c.retryDelay, func() {
		c.post(func() {
			if gen == c.gen {
				c.retryTimer = nil
				c.openSubscription()
			}
		})
	})
}

func (c *Controller) onSnapshot(snap []domain.Project) {
	first := c.subFirst
	c.subFirst = false
	if first && c.errSlot != nil && c.errSlot.Kind == KindSubscription {
		c.errSlot = nil
	}

	c.applySnapshot(snap, "subscription")

	if first && len(snap) == 0 && !c.seeded {
		c.seeded = true
		c.log.Info("empty project collection, creating the starter project")
		seed := c.seed
		c.dispatch(write{
			op: opSeed,
			do: func(ctx context.Context, s repository.Store) (repository.Ack, error) {
				return s.Create(ctx, seed)
			},
		}, nil)
	}
}

// applySnapshot replaces the collection wholesale and reconciles the active
// project.
func (c *Controller) applySnapshot(snap []domain.Project, source string) {
	c.projects = snap
	c.loaded = true

	if c.pendingSelect != "" {
		if _, ok := domain.Find(snap, c.pendingSelect); ok {
			c.activeID = c.pendingSelect
			c.pendingSelect = ""
		}
	}
	c.activeID = Reconcile(c.activeID, snap)

	SnapshotsApplied.WithLabelValues(source).Inc()
	ProjectsTotal.Set(float64(len(snap)))
	c.dirty = true
	c.checkAwaiting()
}

// Writes

func (c *Controller) dispatch(w write, reply chan<- result) {
	if c.store == nil {
		c.reject(w.op, ErrNotConnected, reply)
		return
	}
	gen, store := c.gen, c.store
	c.inflight++

	c.goAsync(func(ctx context.Context) {
		start := time.Now()
		ack, err := w.do(ctx, store)
		WriteDuration.WithLabelValues(w.op).Observe(time.Since(start).Seconds())
		c.post(func() { c.writeDone(gen, w, ack, err, reply) })
	})
}

func (c *Controller) writeDone(gen uint64, w write, ack repository.Ack, err error, reply chan<- result) {
	if gen != c.gen {
		Writes.WithLabelValues(w.op, "error").Inc()
		c.settle(reply, ErrStaleWrite)
		return
	}

	if err != nil {
		Writes.WithLabelValues(w.op, "error").Inc()
		c.log.Warn("project write failed", zap.String("op", w.op), zap.Error(err))
		if errors.Is(err, domain.ErrLastProject) {
			c.setError(KindInvariant, invariantMessage(err))
			c.settle(reply, domain.ErrLastProject)
			return
		}
		c.setError(KindWrite, writeFailureMessage(w.op))
		c.settle(reply, fmt.Errorf("%w: %s", ErrWriteFailed, w.op))
		return
	}

	Writes.WithLabelValues(w.op, "success").Inc()
	if w.onAck != nil {
		w.onAck(ack)
	}
	if ack.Snapshot != nil {
		c.applySnapshot(ack.Snapshot, "ack")
	}
	if w.settled == nil || w.settled(ack) {
		c.settle(reply, nil)
		return
	}
	c.await(w.settled, ack, reply)
}

// await holds reply until a snapshot reflects the write or the settle
// timeout passes. The write already succeeded either way.
func (c *Controller) await(settled func(repository.Ack) bool, ack repository.Ack, reply chan<- result) {
	id := c.nextAwait
	c.nextAwait++

	a := &awaiter{settled: settled, ack: ack, reply: reply}
	a.timer = time.AfterFunc(c.settleTimeout, func() {
		c.post(func() {
			if a, ok := c.awaiting[id]; ok {
				delete(c.awaiting, id)
				c.log.Warn("write not visible before settle timeout", zap.Duration("timeout", c.settleTimeout))
				c.settle(a.reply, nil)
			}
		})
	})
	c.awaiting[id] = a
}

func (c *Controller) checkAwaiting() {
	for id, a := range c.awaiting {
		if a.settled(a.ack) {
			a.timer.Stop()
			delete(c.awaiting, id)
			c.settle(a.reply, nil)
		}
	}
}

func (c *Controller) failAwaiting(err error) {
	for id, a := range c.awaiting {
		a.timer.Stop()
		delete(c.awaiting, id)
		c.settle(a.reply, err)
	}
}

// reject answers an intent that failed validation before any store call.
func (c *Controller) reject(op string, err error, reply chan<- result) {
	Writes.WithLabelValues(op, "rejected").Inc()
	msg := invariantMessage(err)
	if msg == "" {
		msg = writeFailureMessage(op)
	}
	c.setError(KindInvariant, msg)
	c.respond(reply, err)
}

func (c *Controller) setError(kind Kind, msg string) {
	c.errSlot = &ErrorSlot{Kind: kind, Message: msg, At: c.now()}
	c.dirty = true
}
