package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type demoUsecase struct {
	companyRepo    domain.CompanyRepository
	profileRepo    domain.ProfileRepository
	jwtSecret      string
	defaultCompany string
}

// NewDemoUsecase builds the demo-mode login path. Tokens are signed locally
// with the shared JWT secret; the identity provider is never involved and
// demo identities are never reconciled with it.
func NewDemoUsecase(companyRepo domain.CompanyRepository, profileRepo domain.ProfileRepository, jwtSecret, defaultCompany string) domain.DemoAuthUsecase {
	return &demoUsecase{
		companyRepo:    companyRepo,
		profileRepo:    profileRepo,
		jwtSecret:      jwtSecret,
		defaultCompany: defaultCompany,
	}
}

func (u *demoUsecase) DemoLogin(ctx context.Context, email, companyName string) (*domain.LoginResult, error) {
	if strings.TrimSpace(companyName) == "" {
		companyName = u.defaultCompany
	}

	// Deterministic identity per email so a returning demo user keeps their
	// profile and reports.
	userID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("demo:"+email)).String()

	profile, err := u.profileRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		company, cerr := u.companyRepo.GetOrCreate(ctx, companyName)
		if cerr != nil {
			return nil, apperror.Internal(cerr)
		}
		profile = &domain.Profile{
			ID:        userID,
			Email:     email,
			CompanyID: company.ID,
			Theme:     domain.ThemeLight,
		}
		if cerr := u.profileRepo.Create(ctx, profile); cerr != nil {
			return nil, cerr
		}
		profile.CompanyName = company.Name
	} else if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
		"demo":  true,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.jwtSecret))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.LoginResult{
		Token:   token,
		UserID:  userID,
		Email:   email,
		Profile: profile,
	}, nil
}
