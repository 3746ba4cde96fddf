package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-nippo-backend/config"
	_ "go-nippo-backend/docs" // Important for Swagger
	v1 "go-nippo-backend/internal/delivery/http/v1"
	"go-nippo-backend/internal/domain"
	"go-nippo-backend/internal/repository/postgres"
	"go-nippo-backend/internal/usecase"
	"go-nippo-backend/pkg/auth"
	"go-nippo-backend/pkg/database"
	"go-nippo-backend/pkg/identity"
	"go-nippo-backend/pkg/logger"
	"go-nippo-backend/pkg/redis"
	"go-nippo-backend/pkg/revoke"
	"go-nippo-backend/pkg/validation"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Daily Report Backend API
// @version         1.0
// @description     Backend for the daily work-report application using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config (missing required values abort startup)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting daily report backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (token revocation and rate limiting fall back to
	// process memory without it)
	var redisClient *goredis.Client
	revoker := revoke.NewMemory()
	if cfg.RedisURL != "" {
		rc, err := redis.New(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory fallbacks", "error", err)
		} else {
			defer rc.Close()
			redisClient = rc
			revoker = revoke.NewRedis(rc)
		}
	}

	// 5. Register custom request validators on gin's binding engine
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	// 6. Setup Repositories
	companyRepo := postgres.NewCompanyRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	reportRepo := postgres.NewReportRepository(dbPool)

	// 7. Setup Identity Provider Client
	idp := identity.NewClient(cfg.AuthURL, cfg.AuthAnonKey)

	// 8. Setup UseCases
	authUC := usecase.NewAuthUsecase(idp, profileRepo, revoker)
	profileUC := usecase.NewProfileUsecase(profileRepo)
	reportUC := usecase.NewReportUsecase(reportRepo, profileRepo)
	dictationUC := usecase.NewDictationUsecase(time.Duration(cfg.DictationSessionTTLMinutes) * time.Minute)

	var demoUC domain.DemoAuthUsecase
	if cfg.DemoMode {
		demoUC = usecase.NewDemoUsecase(companyRepo, profileRepo, cfg.AuthJWTSecret, cfg.DemoCompanyName)
		logger.Log.Warn("Demo mode enabled: unauthenticated demo login is active")
	}

	// 9. Setup Auth Provider (JWKS)
	jwksURL := cfg.AuthURL + "/auth/v1/.well-known/jwks.json"
	jwksProvider := auth.NewProvider(jwksURL)

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		DemoUC:       demoUC,
		ProfileUC:    profileUC,
		ReportUC:     reportUC,
		DictationUC:  dictationUC,
		JWKSProvider: jwksProvider,
		Revoker:      revoker,
		Redis:        redisClient,
		Config:       cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
