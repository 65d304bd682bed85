package service

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
)

// StaticProvider signs everyone in as one fixed uid. It backs the Redis and
// Postgres stores in development when no Firebase project is configured.
type StaticProvider struct {
	uid string
}

func NewStaticProvider(uid string) *StaticProvider {
	return &StaticProvider{uid: uid}
}

func (p *StaticProvider) LookupUser(_ context.Context, uid string) (domain.Account, error) {
	if uid != p.uid {
		return domain.Account{}, fmt.Errorf("lookup %s: %w", uid, domain.ErrUserNotFound)
	}
	return domain.Account{UID: uid, Anonymous: true}, nil
}

func (p *StaticProvider) VerifyToken(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: tokens are not supported without Firebase", domain.ErrInvalidToken)
}

func (p *StaticProvider) CreateAnonymous(context.Context) (string, error) {
	return p.uid, nil
}
