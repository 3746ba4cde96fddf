package postgres

import (
	"context"

	"go-nippo-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

// GetOrCreate resolves a company by exact name in a single round trip. The
// no-op DO UPDATE makes RETURNING yield the existing row on conflict, so two
// concurrent calls with the same new name always resolve to one id.
func (r *companyRepo) GetOrCreate(ctx context.Context, name string) (*domain.Company, error) {
	query := `
		INSERT INTO companies (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`

	var company domain.Company
	err := r.db.QueryRow(ctx, query, name).Scan(
		&company.ID, &company.Name, &company.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &company, nil
}
