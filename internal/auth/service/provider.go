package service

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/auth/domain"
)

// Provider is the identity service the session signs in with.
type Provider interface {
	// LookupUser confirms an existing uid. Unknown users yield
	// domain.ErrUserNotFound.
	LookupUser(ctx context.Context, uid string) (domain.Account, error)

	// VerifyToken checks a pre-issued ID token and returns its uid.
	VerifyToken(ctx context.Context, token string) (string, error)

	// CreateAnonymous registers a user with no sign-in providers.
	CreateAnonymous(ctx context.Context) (string, error)
}

// authClient is the part of *auth.Client the provider uses.
type authClient interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
}

var _ authClient = (*auth.Client)(nil)

// FirebaseProvider implements Provider with the Firebase Admin SDK.
type FirebaseProvider struct {
	client authClient
}

func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) LookupUser(ctx context.Context, uid string) (domain.Account, error) {
	u, err := p.client.GetUser(ctx, uid)
	if auth.IsUserNotFound(err) {
		return domain.Account{}, fmt.Errorf("lookup %s: %w", uid, domain.ErrUserNotFound)
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("lookup %s: %w", uid, err)
	}
	return domain.Account{
		UID:       u.UID,
		Disabled:  u.Disabled,
		Anonymous: len(u.ProviderUserInfo) == 0,
	}, nil
}

// VerifyToken also rejects tokens of revoked sessions and of users that
// were deleted or disabled since the token was issued.
func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	t, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return t.UID, nil
}

func (p *FirebaseProvider) CreateAnonymous(ctx context.Context) (string, error) {
	u, err := p.client.CreateUser(ctx, &auth.UserToCreate{})
	if err != nil {
		return "", fmt.Errorf("create anonymous user: %w", err)
	}
	return u.UID, nil
}
