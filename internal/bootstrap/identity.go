package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-dashboard/config"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth"
	authservice "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/service"
)

// OpenFirebase initializes the Admin SDK when a Firebase project is
// configured for a remote backend. It returns a nil app otherwise: local mode
// never signs in.
func OpenFirebase(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	if !cfg.Remote() || !cfg.Firebase.Configured() {
		return nil, nil
	}
	return auth.InitializeFirebase(ctx, cfg.Firebase)
}

// NewProvider picks the identity provider for the session. A nil provider
// leaves the session Unavailable, which runs the dashboard in local mode.
func NewProvider(ctx context.Context, cfg *config.Config, fb *firebase.App, log *zap.Logger) (authservice.Provider, error) {
	if !cfg.Remote() {
		if cfg.Firebase.Configured() {
			log.Info("local backend selected; ignoring firebase configuration")
		}
		return nil, nil
	}
	if fb != nil {
		client, err := fb.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth client: %w", err)
		}
		return authservice.NewFirebaseProvider(client), nil
	}
	if cfg.Remote() && !cfg.IsProduction() {
		log.Warn("firebase not configured; signing in with a fixed development identity",
			zap.String("uid", cfg.Session.DevUserID))
		return authservice.NewStaticProvider(cfg.Session.DevUserID), nil
	}
	return nil, nil
}
