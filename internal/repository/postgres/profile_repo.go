package postgres

import (
	"context"
	"errors"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.Theme == "" {
		profile.Theme = domain.ThemeLight
	}
	query := `
		INSERT INTO profiles (id, email, company_id, theme)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		profile.ID, profile.Email, profile.CompanyID, profile.Theme,
	).Scan(&profile.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("A profile already exists for this account")
		}
		return apperror.Internal(err)
	}
	return nil
}

// CreateWithCompany resolves the company and inserts the profile in one
// transaction, so a profile can never point at a company row that was not
// committed.
func (r *profileRepo) CreateWithCompany(ctx context.Context, id, email, companyName string) (*domain.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	companyQuery := `
		INSERT INTO companies (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	var companyID, resolvedName string
	if err := tx.QueryRow(ctx, companyQuery, companyName).Scan(&companyID, &resolvedName); err != nil {
		return nil, apperror.Internal(err)
	}

	profileQuery := `
		INSERT INTO profiles (id, email, company_id, theme)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	profile := &domain.Profile{
		ID:          id,
		Email:       email,
		CompanyID:   companyID,
		CompanyName: resolvedName,
		Theme:       domain.ThemeLight,
	}
	if err := tx.QueryRow(ctx, profileQuery, id, email, companyID, profile.Theme).Scan(&profile.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.Conflict("A profile already exists for this account")
		}
		return nil, apperror.Internal(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// GetByID returns the profile joined with its company's name.
func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
		SELECT p.id, p.email, p.company_id, c.name, p.theme, p.created_at
		FROM profiles p
		JOIN companies c ON c.id = p.company_id
		WHERE p.id = $1`

	var profile domain.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID, &profile.Email, &profile.CompanyID,
		&profile.CompanyName, &profile.Theme, &profile.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) UpdateTheme(ctx context.Context, id, theme string) error {
	query := `UPDATE profiles SET theme = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, theme)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
