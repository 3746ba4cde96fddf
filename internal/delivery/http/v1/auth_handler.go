package v1

import (
	"net/http"

	"go-nippo-backend/internal/delivery/http/response"
	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/apperror"
	"go-nippo-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	demoUC domain.DemoAuthUsecase
}

// NewAuthHandler registers the auth routes. demoUC is nil unless demo mode
// is enabled; the demo route simply does not exist otherwise.
func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, demoUC domain.DemoAuthUsecase) {
	handler := &AuthHandler{
		authUC: authUC,
		demoUC: demoUC,
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/register", handler.Register)
		if demoUC != nil {
			publicAuth.POST("/demo-login", handler.DemoLogin)
		}
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/logout", handler.Logout)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	CompanyName string `json:"company_name" binding:"required,notblank"`
}

type DemoLoginRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	CompanyName string `json:"company_name"`
}

// Register godoc
// @Summary      User Registration
// @Description  Create an identity at the auth provider, resolve the company by name, and provision the profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration Details"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.BindingMessage(err)))
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), req.Email, req.Password, req.CompanyName)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, result.Message, result)
}

// Login godoc
// @Summary      User Login
// @Description  Verify credentials against the auth provider and return the session token plus profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Login Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.BindingMessage(err)))
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Logout godoc
// @Summary      Sign Out
// @Description  Revoke the presented token and sign the session out at the provider.
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session := c.MustGet(domain.SessionKey).(*domain.Session)
	accessToken := c.GetString(domain.AccessTokenKey)

	if err := h.authUC.Logout(c.Request.Context(), session, accessToken); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Signed out", nil)
}

// DemoLogin godoc
// @Summary      Demo Login
// @Description  Issue a locally signed session for a synthetic demo identity. Only available when demo mode is enabled.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      DemoLoginRequest  true  "Demo Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /auth/demo-login [post]
func (h *AuthHandler) DemoLogin(c *gin.Context) {
	var req DemoLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.BindingMessage(err)))
		return
	}

	result, err := h.demoUC.DemoLogin(c.Request.Context(), req.Email, req.CompanyName)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", result)
}
