package v1

import (
	"net/http"

	"go-nippo-backend/config"
	"go-nippo-backend/internal/delivery/http/middleware"
	"go-nippo-backend/internal/delivery/http/response"
	"go-nippo-backend/internal/domain"
	"go-nippo-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	DemoUC       domain.DemoAuthUsecase // nil unless demo mode is enabled
	ProfileUC    domain.ProfileUsecase
	ReportUC     domain.ReportUsecase
	DictationUC  domain.DictationUsecase
	JWKSProvider *auth.Provider
	Revoker      domain.TokenRevoker
	Redis        *goredis.Client // nil means in-memory rate limiting
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimit(deps.Redis, middleware.DefaultRateLimitConfig()))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Credential endpoints get a tighter limit than the rest of the API.
	public := v1.Group("")
	public.Use(middleware.RateLimit(deps.Redis, middleware.AuthRateLimitConfig()))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config, deps.Revoker))
	{
		NewAuthHandler(public, protected, deps.AuthUC, deps.DemoUC)
		NewProfileHandler(protected, deps.ProfileUC)
		NewReportHandler(protected, deps.ReportUC)
		NewDictationHandler(protected, deps.DictationUC)
	}

	return r
}
