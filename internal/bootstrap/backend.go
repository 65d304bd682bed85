package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-dashboard/config"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/repository"
)

// OpenBackend builds the store backend selected by DASHBOARD_BACKEND. The
// returned func releases its clients.
func OpenBackend(ctx context.Context, cfg *config.Config, fb *firebase.App, seed domain.Project, log *zap.Logger) (repository.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendFirestore:
		if fb == nil {
			return nil, nil, fmt.Errorf("firestore backend needs Firebase")
		}
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		log.Info("using firestore backend", zap.String("project_id", cfg.Firebase.ProjectID))
		return repository.NewFirestoreBackend(client, cfg.App.ID), closeFirestore(client, log), nil

	case config.BackendRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis backend", zap.String("addr", cfg.Redis.Addr))
		return repository.NewRedisBackend(client, cfg.App.ID), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := OpenDB(ctx, DBOptions{
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, err
		}
		backend := repository.NewPostgresBackend(pool, cfg.App.ID)
		if err := backend.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("using postgres backend")
		return backend, pool.Close, nil
	}

	log.Info("using local in-memory backend; data is lost on restart")
	return repository.NewLocalStore(seed), func() {}, nil
}

func closeFirestore(client *firestore.Client, log *zap.Logger) func() {
	return func() {
		if err := client.Close(); err != nil {
			log.Warn("closing firestore client", zap.Error(err))
		}
	}
}
