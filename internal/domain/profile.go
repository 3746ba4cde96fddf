package domain

import (
	"context"
	"time"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Profile links an authenticated identity to a company. Exactly one profile
// exists per identity; reports cannot be submitted until it is provisioned.
type Profile struct {
	ID          string    `json:"id"` // identity provider UUID
	Email       string    `json:"email"`
	CompanyID   string    `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	Theme       string    `json:"theme"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	// CreateWithCompany resolves the company by name and inserts the profile
	// in a single transaction.
	CreateWithCompany(ctx context.Context, id, email, companyName string) (*Profile, error)
	// GetByID returns the profile joined with its company name, or
	// ErrNotFound when the identity has no profile yet.
	GetByID(ctx context.Context, id string) (*Profile, error)
	UpdateTheme(ctx context.Context, id, theme string) error
}

type ProfileUsecase interface {
	// GetCurrent returns the caller's profile, or (nil, nil) when the
	// identity exists but was never provisioned with a profile.
	GetCurrent(ctx context.Context, session *Session) (*Profile, error)
	// Provision repairs a partially registered account: it creates the
	// missing profile for an already-authenticated identity.
	Provision(ctx context.Context, session *Session, companyName string) (*Profile, error)
	SetTheme(ctx context.Context, session *Session, theme string) (*Profile, error)
}
