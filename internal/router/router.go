package router

import (
	"context"
	"log"
	"net/http"

	"github.com/fridayblog/backend/internal/cascade"
	"github.com/fridayblog/backend/internal/handlers"
	"github.com/fridayblog/backend/internal/middleware"
	"github.com/fridayblog/backend/internal/models"
	"github.com/fridayblog/backend/internal/notifier"
	"github.com/fridayblog/backend/internal/repositories"
	"github.com/fridayblog/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware and the centralized
// error responder
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = ErrorHandler
	log.Println("Global middleware configured.")
}

// ErrorHandler normalizes every failure to the JSON shape
// {message, status}, defaulting to 500 when unspecified.
func ErrorHandler(err error, c echo.Context) {
	status := http.StatusInternalServerError
	message := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}

	if c.Response().Committed {
		return
	}
	if jsonErr := c.JSON(status, echo.Map{"message": message, "status": status}); jsonErr != nil {
		log.Printf("error responder failed: %v", jsonErr)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, mgClient *mongo.Client, pgdb *gorm.DB) {
	// AutoMigrate the PostgreSQL intent tables
	err := pgdb.AutoMigrate(
		&models.CascadeIntent{},
		&models.NotificationIntent{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for intent models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	db := mgClient.Database(cfg.MongoDBName)
	blogRepo := repositories.NewMongoBlogRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	readingListRepo := repositories.NewMongoReadingListRepository(db)
	userRepo := repositories.NewMongoUserRepository(db)
	intentRepo := repositories.NewGormIntentRepository(pgdb)

	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}

	// --- Collaborators ---
	coordinator := cascade.NewCoordinator(blogRepo, commentRepo, readingListRepo, userRepo, intentRepo)
	outbox := notifier.NewOutbox(intentRepo,
		notifier.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom),
		notifier.NewLogSMSNotifier(),
	)

	// --- Middleware ---
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	idCheck := middleware.IDChecker("id")
	blogIDCheck := middleware.IDChecker("id", "blogId")

	// --- Routes ---
	blogHandler := handlers.NewBlogHandler(blogRepo, coordinator)
	blogHandler.RegisterBlogRoutes(e.Group("/blogs"), auth, idCheck)
	log.Println("Blog routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, blogRepo)
	commentHandler.RegisterCommentRoutes(e.Group("/comments"), auth, idCheck)
	log.Println("Comment routes configured.")

	readingListHandler := handlers.NewReadingListHandler(readingListRepo, blogRepo)
	readingListHandler.RegisterReadingListRoutes(e.Group("/readinglists"), auth, idCheck, blogIDCheck)
	log.Println("Reading list routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, coordinator, outbox, cfg.JWTSecret)
	userHandler.RegisterUserRoutes(e.Group("/users"), auth, idCheck)
	log.Println("User routes configured.")

	log.Println("All routes configured.")
}
