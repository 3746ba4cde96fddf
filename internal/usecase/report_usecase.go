package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
	"go-nippo-backend/pkg/validation"
)

type reportUsecase struct {
	reportRepo  domain.ReportRepository
	profileRepo domain.ProfileRepository
}

func NewReportUsecase(reportRepo domain.ReportRepository, profileRepo domain.ProfileRepository) domain.ReportUsecase {
	return &reportUsecase{reportRepo: reportRepo, profileRepo: profileRepo}
}

// Submit validates and stores one report. The content is persisted verbatim
// (untrimmed, newlines intact); only the blank check trims.
func (u *reportUsecase) Submit(ctx context.Context, session *domain.Session, content, date string) (*domain.Report, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperror.BadRequest("Report content cannot be blank")
	}

	date, err := resolveDate(date)
	if err != nil {
		return nil, err
	}

	profile, err := u.requireProfile(ctx, session)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		UserID:      session.UserID,
		CompanyID:   profile.CompanyID, // always the author's company, never client input
		Content:     content,
		Date:        date,
		AuthorEmail: profile.Email,
	}
	if err := u.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (u *reportUsecase) ListForDate(ctx context.Context, session *domain.Session, date string) ([]domain.Report, error) {
	date, err := resolveDate(date)
	if err != nil {
		return nil, err
	}

	profile, err := u.requireProfile(ctx, session)
	if err != nil {
		return nil, err
	}

	return u.reportRepo.ListByCompanyAndDate(ctx, profile.CompanyID, date)
}

func (u *reportUsecase) requireProfile(ctx context.Context, session *domain.Session) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Forbidden("Account has no profile; provision a company first")
		}
		return nil, err
	}
	return profile, nil
}

// resolveDate validates a client-supplied calendar date, falling back to the
// server's local today. The client's local date wins because "today" is
// defined by the clock of the person writing the report.
func resolveDate(date string) (string, error) {
	if date == "" {
		return time.Now().Format(time.DateOnly), nil
	}
	if !validation.ValidDateOnly(date) {
		return "", apperror.BadRequest("Date must be formatted as YYYY-MM-DD")
	}
	return date, nil
}
