package usecase

import (
	"context"
	"errors"
	"strings"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
}

func NewProfileUsecase(profileRepo domain.ProfileRepository) domain.ProfileUsecase {
	return &profileUsecase{profileRepo: profileRepo}
}

// GetCurrent resolves the caller's profile for the dashboard bootstrap.
// A missing profile is not an error: the dashboard loads empty and the
// client is told to provision.
func (u *profileUsecase) GetCurrent(ctx context.Context, session *domain.Session) (*domain.Profile, error) {
	profile, err := u.profileRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func (u *profileUsecase) Provision(ctx context.Context, session *domain.Session, companyName string) (*domain.Profile, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, apperror.BadRequest("Company name is required")
	}
	return u.profileRepo.CreateWithCompany(ctx, session.UserID, session.Email, companyName)
}

func (u *profileUsecase) SetTheme(ctx context.Context, session *domain.Session, theme string) (*domain.Profile, error) {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return nil, apperror.BadRequest("Theme must be light or dark")
	}

	if err := u.profileRepo.UpdateTheme(ctx, session.UserID, theme); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Profile not found")
		}
		return nil, err
	}
	return u.profileRepo.GetByID(ctx, session.UserID)
}
