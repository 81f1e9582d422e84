package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ketpa-backend/config"
	deliveryHttp "ketpa-backend/internal/delivery/http"
	"ketpa-backend/internal/delivery/http/handler"
	"ketpa-backend/internal/delivery/http/middleware"
	"ketpa-backend/internal/infrastructure/cache"
	"ketpa-backend/internal/infrastructure/database"
	"ketpa-backend/internal/infrastructure/mail"
	"ketpa-backend/internal/repository"
	"ketpa-backend/internal/service"
	"ketpa-backend/internal/usecase"
	"ketpa-backend/pkg/jwt"
	"ketpa-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Notifier    service.NotificationService
	Log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	log := SetupLogger(cfg.App.Env)
	app := &App{Config: cfg, Log: log}

	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	if cfg.DB.AutoMigrate {
		if err := Migrate(cfg.DB); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	app.Notifier = service.NewNotificationService(mail.NewMailer(cfg.Mail, log), log, service.NotificationConfig{
		Location:  loc,
		ManageURL: strings.TrimRight(cfg.App.FrontendURL, "/") + "/my-appointments",
		OTPExpiry: cfg.Booking.OTPExpiry,
	})

	app.Server = initializeServer(cfg, log, loc, db, redisClient, app.Notifier)
	return app, nil
}

// SetupLogger configures the logrus standard logger
func SetupLogger(env string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	if env == "development" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Migrate applies pending migrations
func Migrate(cfg config.DBConfig) error {
	migrator, err := database.NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	loc *time.Location,
	db *gorm.DB,
	redisClient *redis.Client,
	notifier service.NotificationService,
) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Repositories
	transactor := repository.NewTransactor(db)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewRedisTokenStore(redisClient)
	otpLimiter := service.NewRedisOTPLimiter(redisClient, cfg.Booking.OTPResends, cfg.Booking.OTPWindow)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(log, transactor, patientRepo, doctorRepo, auditService, notifier,
		tokenStore, otpLimiter, jwtService, cfg.Admin, cfg.Booking.OTPExpiry)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, transactor, appointmentRepo, doctorRepo, patientRepo,
		auditService, notifier, loc)
	doctorUsecase := usecase.NewDoctorUsecase(log, transactor, doctorRepo, auditService, loc)
	patientUsecase := usecase.NewPatientUsecase(log, patientRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(log, appointmentRepo, doctorRepo, patientRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditService)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.FrontendURL)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	router := deliveryHttp.NewRouter(authHandler, appointmentHandler, doctorHandler, patientHandler,
		dashboardHandler, auditLogHandler, authMiddleware, corsMiddleware, loggingMiddleware)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Emails queued by the last requests still go out
	app.Notifier.Wait()

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
