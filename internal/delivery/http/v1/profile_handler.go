package v1

import (
	"net/http"

	"go-nippo-backend/internal/delivery/http/response"
	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
	"go-nippo-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	protected.GET("/me", handler.Me)
	profiles := protected.Group("/profiles")
	{
		profiles.POST("/provision", handler.Provision)
		profiles.PUT("/me/theme", handler.SetTheme)
	}
}

type ProvisionRequest struct {
	CompanyName string `json:"company_name" binding:"required,notblank"`
}

type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

// Me godoc
// @Summary      Session Bootstrap
// @Description  Return the session user and profile. A null profile with needs_provisioning=true means the account was registered but never provisioned.
// @Tags         profiles
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	session := c.MustGet(domain.SessionKey).(*domain.Session)

	profile, err := h.profileUC.GetCurrent(c.Request.Context(), session)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Session details", gin.H{
		"user": gin.H{
			"id":    session.UserID,
			"email": session.Email,
		},
		"profile":            profile,
		"needs_provisioning": profile == nil,
	})
}

// Provision godoc
// @Summary      Provision Profile
// @Description  Repair a partially registered account by creating the missing profile for the authenticated identity.
// @Tags         profiles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        provision  body      ProvisionRequest  true  "Company Name"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /profiles/provision [post]
func (h *ProfileHandler) Provision(c *gin.Context) {
	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.BindingMessage(err)))
		return
	}

	session := c.MustGet(domain.SessionKey).(*domain.Session)

	profile, err := h.profileUC.Provision(c.Request.Context(), session, req.CompanyName)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile provisioned", profile)
}

// SetTheme godoc
// @Summary      Set Theme Preference
// @Description  Persist the light/dark theme preference on the caller's profile.
// @Tags         profiles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        theme  body      ThemeRequest  true  "Theme"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/me/theme [put]
func (h *ProfileHandler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.BindingMessage(err)))
		return
	}

	session := c.MustGet(domain.SessionKey).(*domain.Session)

	profile, err := h.profileUC.SetTheme(c.Request.Context(), session, req.Theme)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Theme updated", profile)
}
