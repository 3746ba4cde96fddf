package domain

import (
	"context"
	"time"
)

// SessionKey is the gin context key under which the auth middleware stores
// the validated *Session. AccessTokenKey holds the raw bearer token for the
// one handler (logout) that must forward it to the provider.
const (
	SessionKey     = "Session"
	AccessTokenKey = "AccessToken"
)

// Session is the explicit, validated form of the identity provider's token
// claims. It is built exactly once, at the boundary where the bearer token
// is verified; everything downstream trusts it.
type Session struct {
	UserID      string
	Email       string
	TokenDigest string
	ExpiresAt   time.Time
}

// TokenRevoker is the sign-out denylist. Revoked token digests stay listed
// until their natural expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, digest string, ttl time.Duration) error
	IsRevoked(ctx context.Context, digest string) (bool, error)
}

// IdentityProvider is the subset of the hosted auth service this application
// consumes: account creation, credential verification and sign-out.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*IdentityUser, error)
	SignInWithPassword(ctx context.Context, email, password string) (*IdentitySession, error)
	SignOut(ctx context.Context, accessToken string) error
}

// IdentityUser is a freshly created identity. AccessToken is only set when
// the provider auto-confirmed the account.
type IdentityUser struct {
	ID          string
	Email       string
	AccessToken string
}

// IdentitySession is a verified credential grant.
type IdentitySession struct {
	AccessToken string
	UserID      string
	Email       string
	ExpiresAt   time.Time
}

type AuthUsecase interface {
	Register(ctx context.Context, email, password, companyName string) (*RegistrationResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Logout revokes the presented token locally and best-effort signs the
	// session out at the provider.
	Logout(ctx context.Context, session *Session, accessToken string) error
}

// DemoAuthUsecase is the demo-mode login path. It is only wired when demo
// mode is enabled by configuration and never touches the identity provider.
type DemoAuthUsecase interface {
	DemoLogin(ctx context.Context, email, companyName string) (*LoginResult, error)
}

type RegistrationResult struct {
	Message string   `json:"message"`
	Token   string   `json:"token,omitempty"` // only for auto-confirmed accounts
	Profile *Profile `json:"profile,omitempty"`
}

type LoginResult struct {
	Token             string   `json:"token"`
	UserID            string   `json:"user_id"`
	Email             string   `json:"email"`
	Profile           *Profile `json:"profile,omitempty"`
	NeedsProvisioning bool     `json:"needs_provisioning"`
}
