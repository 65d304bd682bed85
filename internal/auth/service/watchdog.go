package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultRevalidateSpec runs the identity check every ten minutes.
const DefaultRevalidateSpec = "@every 10m"

const revalidateTimeout = 30 * time.Second

// Watchdog periodically revalidates the session identity.
type Watchdog struct {
	session *Session
	cron    *cron.Cron
	log     *zap.Logger
}

// NewWatchdog schedules session.Revalidate on spec (standard cron syntax or
// descriptors such as "@every 5m").
func NewWatchdog(session *Session, spec string, log *zap.Logger) (*Watchdog, error) {
	if spec == "" {
		spec = DefaultRevalidateSpec
	}
	if log == nil {
		log = zap.NewNop()
	}
	w := &Watchdog{session: session, cron: cron.New(), log: log.Named("watchdog")}

	if _, err := w.cron.AddFunc(spec, w.run); err != nil {
		return nil, fmt.Errorf("schedule revalidation %q: %w", spec, err)
	}
	return w, nil
}

func (w *Watchdog) Start() {
	w.cron.Start()
	w.log.Info("session watchdog started")
}

// Stop halts scheduling and waits for a running check to finish.
func (w *Watchdog) Stop() {
	<-w.cron.Stop().Done()
}

func (w *Watchdog) run() {
	ctx, cancel := context.WithTimeout(context.Background(), revalidateTimeout)
	defer cancel()
	if err := w.session.Revalidate(ctx); err != nil {
		w.log.Warn("revalidation failed", zap.Error(err))
	}
}
