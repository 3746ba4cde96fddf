package usecase_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/internal/usecase"
	"go-nippo-backend/pkg/apperror"
	"go-nippo-backend/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) CreateWithCompany(ctx context.Context, id, email, companyName string) (*domain.Profile, error) {
	args := m.Called(ctx, id, email, companyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) UpdateTheme(ctx context.Context, id, theme string) error {
	return m.Called(ctx, id, theme).Error(0)
}

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, report *domain.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReportRepo) ListByCompanyAndDate(ctx context.Context, companyID, date string) ([]domain.Report, error) {
	args := m.Called(ctx, companyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) GetOrCreate(ctx context.Context, name string) (*domain.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string) (*domain.IdentityUser, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentityUser), args.Error(1)
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.IdentitySession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentitySession), args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, digest string, ttl time.Duration) error {
	return m.Called(ctx, digest, ttl).Error(0)
}

func (m *MockRevoker) IsRevoked(ctx context.Context, digest string) (bool, error) {
	args := m.Called(ctx, digest)
	return args.Bool(0), args.Error(1)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject blank company name before touching the provider", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		uc := usecase.NewAuthUsecase(idp, new(MockProfileRepo), new(MockRevoker))

		_, err := uc.Register(ctx, "a@example.com", "secret123", "   ")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Company name is required")
		idp.AssertNotCalled(t, "SignUp")
	})

	t.Run("Should surface provisioning failure after the identity was created", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewAuthUsecase(idp, profileRepo, new(MockRevoker))

		idp.On("SignUp", ctx, "a@example.com", "secret123").
			Return(&domain.IdentityUser{ID: "user-1", Email: "a@example.com"}, nil)
		profileRepo.On("CreateWithCompany", ctx, "user-1", "a@example.com", "Acme").
			Return(nil, errors.New("db down"))

		_, err := uc.Register(ctx, "a@example.com", "secret123", "Acme")
		assert.Error(t, err)
		idp.AssertExpectations(t)
		profileRepo.AssertExpectations(t)
	})

	t.Run("Should return a session token for auto-confirmed accounts", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewAuthUsecase(idp, profileRepo, new(MockRevoker))

		idp.On("SignUp", ctx, "a@example.com", "secret123").
			Return(&domain.IdentityUser{ID: "user-1", Email: "a@example.com", AccessToken: "tok"}, nil)
		profileRepo.On("CreateWithCompany", ctx, "user-1", "a@example.com", "Acme").
			Return(&domain.Profile{ID: "user-1", CompanyName: "Acme"}, nil)

		result, err := uc.Register(ctx, "a@example.com", "secret123", "Acme")
		assert.NoError(t, err)
		assert.Equal(t, "tok", result.Token)
		assert.Equal(t, "Acme", result.Profile.CompanyName)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Should flag accounts without a profile for provisioning", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewAuthUsecase(idp, profileRepo, new(MockRevoker))

		idp.On("SignInWithPassword", ctx, "a@example.com", "secret123").
			Return(&domain.IdentitySession{AccessToken: "tok", UserID: "user-1", Email: "a@example.com"}, nil)
		profileRepo.On("GetByID", ctx, "user-1").Return(nil, domain.ErrNotFound)

		result, err := uc.Login(ctx, "a@example.com", "secret123")
		assert.NoError(t, err)
		assert.True(t, result.NeedsProvisioning)
		assert.Nil(t, result.Profile)
		assert.Equal(t, "tok", result.Token)
	})

	t.Run("Should attach the profile for fully provisioned accounts", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewAuthUsecase(idp, profileRepo, new(MockRevoker))

		idp.On("SignInWithPassword", ctx, "a@example.com", "secret123").
			Return(&domain.IdentitySession{AccessToken: "tok", UserID: "user-1", Email: "a@example.com"}, nil)
		profileRepo.On("GetByID", ctx, "user-1").
			Return(&domain.Profile{ID: "user-1", CompanyID: "co-1", CompanyName: "Acme"}, nil)

		result, err := uc.Login(ctx, "a@example.com", "secret123")
		assert.NoError(t, err)
		assert.False(t, result.NeedsProvisioning)
		assert.Equal(t, "Acme", result.Profile.CompanyName)
	})

	t.Run("Should pass the provider's rejection through untouched", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		uc := usecase.NewAuthUsecase(idp, new(MockProfileRepo), new(MockRevoker))

		idp.On("SignInWithPassword", ctx, "a@example.com", "wrong").
			Return(nil, apperror.Unauthorized("Invalid login credentials"))

		_, err := uc.Login(ctx, "a@example.com", "wrong")
		assert.Error(t, err)
		assert.Equal(t, "Invalid login credentials", err.Error())
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	session := &domain.Session{
		UserID:      "user-1",
		TokenDigest: "digest",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	t.Run("Should revoke the token even when the provider sign-out fails", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		revoker := new(MockRevoker)
		uc := usecase.NewAuthUsecase(idp, new(MockProfileRepo), revoker)

		revoker.On("Revoke", ctx, "digest", mock.AnythingOfType("time.Duration")).Return(nil)
		idp.On("SignOut", ctx, "raw-token").Return(errors.New("provider down"))

		err := uc.Logout(ctx, session, "raw-token")
		assert.NoError(t, err)
		revoker.AssertExpectations(t)
	})

	t.Run("Should fail when the revocation list is unavailable", func(t *testing.T) {
		revoker := new(MockRevoker)
		uc := usecase.NewAuthUsecase(new(MockIdentityProvider), new(MockProfileRepo), revoker)

		revoker.On("Revoke", ctx, "digest", mock.AnythingOfType("time.Duration")).
			Return(errors.New("redis down"))

		err := uc.Logout(ctx, session, "raw-token")
		assert.Error(t, err)
	})
}

func TestSubmitReport(t *testing.T) {
	ctx := context.Background()
	session := &domain.Session{UserID: "user-1", Email: "a@example.com"}

	t.Run("Should reject blank content before any lookup", func(t *testing.T) {
		reportRepo := new(MockReportRepo)
		uc := usecase.NewReportUsecase(reportRepo, new(MockProfileRepo))

		_, err := uc.Submit(ctx, session, "  \n\t ", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be blank")
		reportRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Should reject malformed dates", func(t *testing.T) {
		uc := usecase.NewReportUsecase(new(MockReportRepo), new(MockProfileRepo))

		_, err := uc.Submit(ctx, session, "did things", "01/09/2026")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "YYYY-MM-DD")
	})

	t.Run("Should refuse submission without a provisioned profile", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewReportUsecase(new(MockReportRepo), profileRepo)

		profileRepo.On("GetByID", ctx, "user-1").Return(nil, domain.ErrNotFound)

		_, err := uc.Submit(ctx, session, "did things", "2026-09-01")
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("Should force the company from the author's profile", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		reportRepo := new(MockReportRepo)
		uc := usecase.NewReportUsecase(reportRepo, profileRepo)

		profileRepo.On("GetByID", ctx, "user-1").
			Return(&domain.Profile{ID: "user-1", Email: "a@example.com", CompanyID: "co-1"}, nil)
		reportRepo.On("Create", ctx, mock.AnythingOfType("*domain.Report")).Return(nil).
			Run(func(args mock.Arguments) {
				r := args.Get(1).(*domain.Report)
				assert.Equal(t, "co-1", r.CompanyID)
				assert.Equal(t, "user-1", r.UserID)
			})

		report, err := uc.Submit(ctx, session, "本日の作業:\n- レビュー対応", "2026-09-01")
		assert.NoError(t, err)
		assert.Equal(t, "本日の作業:\n- レビュー対応", report.Content)
		assert.Equal(t, "2026-09-01", report.Date)
	})

	t.Run("Should default an empty date to today", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		reportRepo := new(MockReportRepo)
		uc := usecase.NewReportUsecase(reportRepo, profileRepo)

		profileRepo.On("GetByID", ctx, "user-1").
			Return(&domain.Profile{ID: "user-1", CompanyID: "co-1"}, nil)
		reportRepo.On("Create", ctx, mock.AnythingOfType("*domain.Report")).Return(nil)

		report, err := uc.Submit(ctx, session, "did things", "")
		assert.NoError(t, err)
		assert.Equal(t, time.Now().Format(time.DateOnly), report.Date)
	})
}

func TestListReports(t *testing.T) {
	ctx := context.Background()
	session := &domain.Session{UserID: "user-1"}

	t.Run("Should scope the listing to the caller's company", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		reportRepo := new(MockReportRepo)
		uc := usecase.NewReportUsecase(reportRepo, profileRepo)

		profileRepo.On("GetByID", ctx, "user-1").
			Return(&domain.Profile{ID: "user-1", CompanyID: "co-1"}, nil)
		reportRepo.On("ListByCompanyAndDate", ctx, "co-1", "2026-09-01").
			Return([]domain.Report{{ID: "r2"}, {ID: "r1"}}, nil)

		reports, err := uc.ListForDate(ctx, session, "2026-09-01")
		assert.NoError(t, err)
		assert.Len(t, reports, 2)
		reportRepo.AssertExpectations(t)
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	session := &domain.Session{UserID: "user-1", Email: "a@example.com"}

	t.Run("Should treat a missing profile as an empty bootstrap, not an error", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profileRepo)

		profileRepo.On("GetByID", ctx, "user-1").Return(nil, domain.ErrNotFound)

		profile, err := uc.GetCurrent(ctx, session)
		assert.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("Should reject unknown theme values", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profileRepo)

		_, err := uc.SetTheme(ctx, session, "sepia")
		assert.Error(t, err)
		profileRepo.AssertNotCalled(t, "UpdateTheme")
	})

	t.Run("Should persist a valid theme and return the updated profile", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profileRepo)

		profileRepo.On("UpdateTheme", ctx, "user-1", domain.ThemeDark).Return(nil)
		profileRepo.On("GetByID", ctx, "user-1").
			Return(&domain.Profile{ID: "user-1", Theme: domain.ThemeDark}, nil)

		profile, err := uc.SetTheme(ctx, session, domain.ThemeDark)
		assert.NoError(t, err)
		assert.Equal(t, domain.ThemeDark, profile.Theme)
	})

	t.Run("Should provision using the session identity", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profileRepo)

		profileRepo.On("CreateWithCompany", ctx, "user-1", "a@example.com", "Acme").
			Return(&domain.Profile{ID: "user-1", CompanyName: "Acme"}, nil)

		profile, err := uc.Provision(ctx, session, "Acme")
		assert.NoError(t, err)
		assert.Equal(t, "Acme", profile.CompanyName)
	})
}

func TestDemoLogin(t *testing.T) {
	ctx := context.Background()
	const secret = "test-secret"

	t.Run("Should create a profile on first visit and sign a local token", func(t *testing.T) {
		companyRepo := new(MockCompanyRepo)
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewDemoUsecase(companyRepo, profileRepo, secret, "デモ企業")

		profileRepo.On("GetByID", ctx, mock.AnythingOfType("string")).Return(nil, domain.ErrNotFound)
		companyRepo.On("GetOrCreate", ctx, "デモ企業").
			Return(&domain.Company{ID: "co-demo", Name: "デモ企業"}, nil)
		profileRepo.On("Create", ctx, mock.AnythingOfType("*domain.Profile")).Return(nil)

		result, err := uc.DemoLogin(ctx, "demo@example.com", "")
		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "デモ企業", result.Profile.CompanyName)

		token, err := jwt.Parse(result.Token, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, result.UserID, claims["sub"])
		assert.Equal(t, true, claims["demo"])
	})

	t.Run("Should give the same identity to a returning email", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		uc := usecase.NewDemoUsecase(new(MockCompanyRepo), profileRepo, secret, "デモ企業")

		profileRepo.On("GetByID", ctx, mock.AnythingOfType("string")).
			Return(&domain.Profile{ID: "existing", CompanyID: "co-demo"}, nil)

		first, err := uc.DemoLogin(ctx, "demo@example.com", "")
		assert.NoError(t, err)
		second, err := uc.DemoLogin(ctx, "demo@example.com", "")
		assert.NoError(t, err)
		assert.Equal(t, first.UserID, second.UserID)
	})
}
