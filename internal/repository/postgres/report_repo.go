package postgres

import (
	"context"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
)

type reportRepo struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) domain.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (user_id, company_id, content, date)
		VALUES ($1, $2, $3, $4::date)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		report.UserID, report.CompanyID, report.Content, report.Date,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// ListByCompanyAndDate returns every report of one company for one calendar
// date, newest first, with the author's email joined in.
func (r *reportRepo) ListByCompanyAndDate(ctx context.Context, companyID, date string) ([]domain.Report, error) {
	query := `
		SELECT r.id, r.user_id, r.company_id, r.content,
		       to_char(r.date, 'YYYY-MM-DD'), r.created_at, p.email
		FROM reports r
		JOIN profiles p ON p.id = r.user_id
		WHERE r.company_id = $1 AND r.date = $2::date
		ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID, &report.UserID, &report.CompanyID, &report.Content,
			&report.Date, &report.CreatedAt, &report.AuthorEmail,
		); err != nil {
			return nil, apperror.Internal(err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal(err)
	}
	return reports, nil
}
