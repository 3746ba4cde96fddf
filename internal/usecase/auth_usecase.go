package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
	"go-nippo-backend/pkg/logger"
)

type authUsecase struct {
	idp         domain.IdentityProvider
	profileRepo domain.ProfileRepository
	revoker     domain.TokenRevoker
}

func NewAuthUsecase(idp domain.IdentityProvider, profileRepo domain.ProfileRepository, revoker domain.TokenRevoker) domain.AuthUsecase {
	return &authUsecase{idp: idp, profileRepo: profileRepo, revoker: revoker}
}

// Register creates the identity at the provider, then resolves the company
// and inserts the profile locally. If the local step fails the identity
// already exists without a profile; that state is repaired on the next login
// via provisioning, not rolled back here.
func (u *authUsecase) Register(ctx context.Context, email, password, companyName string) (*domain.RegistrationResult, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, apperror.BadRequest("Company name is required")
	}

	user, err := u.idp.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := u.profileRepo.CreateWithCompany(ctx, user.ID, email, companyName)
	if err != nil {
		logger.Log.Warn("identity created but profile provisioning failed",
			"user_id", user.ID, "error", err)
		return nil, err
	}

	result := &domain.RegistrationResult{
		Message: "Registration successful. Please check your email to confirm your address.",
		Profile: profile,
	}
	if user.AccessToken != "" {
		// Auto-confirmed deployments hand back a usable session right away.
		result.Message = "Registration successful"
		result.Token = user.AccessToken
	}
	return result, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	sess, err := u.idp.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	result := &domain.LoginResult{
		Token:  sess.AccessToken,
		UserID: sess.UserID,
		Email:  sess.Email,
	}

	profile, err := u.profileRepo.GetByID(ctx, sess.UserID)
	switch {
	case err == nil:
		result.Profile = profile
	case errors.Is(err, domain.ErrNotFound):
		// Partially registered account: valid identity, no profile yet.
		result.NeedsProvisioning = true
	default:
		return nil, err
	}
	return result, nil
}

func (u *authUsecase) Logout(ctx context.Context, session *domain.Session, accessToken string) error {
	ttl := time.Until(session.ExpiresAt)
	if err := u.revoker.Revoke(ctx, session.TokenDigest, ttl); err != nil {
		return apperror.Internal(err)
	}

	// Best effort: the local denylist already blocks the token even if the
	// provider call fails.
	if err := u.idp.SignOut(ctx, accessToken); err != nil {
		logger.Log.Warn("provider sign-out failed", "user_id", session.UserID, "error", err)
	}
	return nil
}
