package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-dashboard/config"
	httpapi "github.com/GoSim-25-26J-441/project-dashboard/internal/api/http"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/api/http/routes"
	authhttp "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/http"
	authmw "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/middleware"
	authrepo "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/repository"
	authservice "github.com/GoSim-25-26J-441/project-dashboard/internal/auth/service"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
	projecthttp "github.com/GoSim-25-26J-441/project-dashboard/internal/projects/http"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/service"
)

const serviceName = "project-dashboard"

// App is the assembled dashboard process.
type App struct {
	Backend   repository.Backend
	Session   *authservice.Session
	Watchdog  *authservice.Watchdog
	Dashboard *service.Controller
	Router    *gin.Engine

	log     *zap.Logger
	closers []func()
}

func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{log: log}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	seed, err := domain.LoadSeed(cfg.App.SeedFile)
	if err != nil {
		return nil, err
	}

	fb, err := OpenFirebase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	backend, closeBackend, err := OpenBackend(ctx, cfg, fb, seed, log)
	if err != nil {
		return nil, err
	}
	a.Backend = backend
	a.closers = append(a.closers, closeBackend)

	provider, err := NewProvider(ctx, cfg, fb, log)
	if err != nil {
		return nil, err
	}
	a.Session = authservice.NewSession(provider, authservice.SessionOptions{
		Token: cfg.Session.Token,
		File:  authrepo.NewSessionFile(cfg.Session.File),
	}, log)
	if provider != nil {
		a.Watchdog, err = authservice.NewWatchdog(a.Session, cfg.Session.RevalidateSpec, log)
		if err != nil {
			return nil, err
		}
	}

	remoteSeed := seed
	remoteSeed.ID = ""
	a.Dashboard = service.New(backend, a.Session, service.Options{Seed: remoteSeed}, log)

	var tokenCheck gin.HandlerFunc
	if cfg.Server.RequireIDToken {
		if provider == nil {
			return nil, fmt.Errorf("REQUIRE_ID_TOKEN needs an identity provider")
		}
		tokenCheck = authmw.RequireSessionToken(provider, a.Session)
	}

	health := httpapi.NewHealthHandler(serviceName, cfg.App.Version, backend, func() string {
		return string(a.Dashboard.View().Status)
	})
	a.Router = BuildRouter(RouterDeps{
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		Log:         log,
		Health:      health,
		V1: routes.V1Deps{
			Dashboard:      projecthttp.New(a.Dashboard),
			Session:        authhttp.New(a.Session),
			APIKey:         cfg.Server.APIKey,
			WriteRateLimit: cfg.Server.WriteRateLimit,
			WriteRateBurst: cfg.Server.WriteRateBurst,
			TokenCheck:     tokenCheck,
		},
	})

	ok = true
	return a, nil
}

// Run starts the controller, signs in and keeps the identity fresh until ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Dashboard.Run(ctx) }()

	st := a.Session.Start(ctx)
	a.log.Info("session established", zap.Stringer("state", st.State), zap.String("uid", st.UID()))

	if a.Watchdog != nil {
		a.Watchdog.Start()
		defer a.Watchdog.Stop()
	}

	return <-errCh
}

// Close releases backend clients. It is safe to call more than once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
