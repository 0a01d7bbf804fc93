package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"shopmydish/internal/api/handlers"
	"shopmydish/internal/api/presenters"
	"shopmydish/internal/api/routes"
	"shopmydish/internal/metrics"
	"shopmydish/internal/middleware"
	"shopmydish/internal/utils"
	"shopmydish/internal/utils/cache"
	"shopmydish/internal/utils/mailing"
	"shopmydish/internal/utils/storage"
	"shopmydish/pkg/auth"
	"shopmydish/pkg/bugreport"
	"shopmydish/pkg/catalog"
	"shopmydish/pkg/dish"
	"shopmydish/pkg/jwt"
	"shopmydish/pkg/menu"
	"shopmydish/pkg/ownership"
	"shopmydish/pkg/shoppinglist"
	"shopmydish/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB, cfg utils.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		ErrorHandler: presenters.ErrorHandler,
	})
	middlewares := middleware.NewMiddleware(cfg.AppURL)
	validator := utils.NewValidator()
	m := metrics.New()

	// setting up logging and limiter
	output, err := logOutput(cfg.LogFile)
	if err != nil {
		return nil, err
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     output,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Second,
		Storage:    cache.NewStorage(cfg, "limiter:"),
	}))

	// utils
	var s3 storage.AwsS3
	if cfg.S3Enabled() {
		if s3, err = storage.NewAwsS3(context.Background(), cfg); err != nil {
			return nil, err
		}
	}
	var mailer mailing.Mailer
	if cfg.MailEnabled() {
		mailer = mailing.NewMailer(mailing.LoadMailConfig(cfg))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	ownershipRepository := ownership.NewOwnershipRepository(db)
	catalogRepository := catalog.NewCatalogRepository(db)
	dishRepository := dish.NewDishRepository(db)
	menuRepository := menu.NewMenuRepository(db)
	shoppingListRepository := shoppinglist.NewShoppingListRepository(db)
	bugReportRepository := bugreport.NewBugReportRepository(db)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	userService := user.NewUserService(userRepository)
	var authService auth.AuthService
	if cfg.AuthEnabled() {
		authService = auth.NewAuthService(auth.ProviderConfig{
			Domain:       cfg.Auth0Domain,
			ClientID:     cfg.Auth0ClientID,
			ClientSecret: cfg.Auth0ClientSecret,
			CallbackURL:  cfg.Auth0CallbackURL,
		}, cache.NewStorage(cfg, "oauth_state:"), userService, jwtService)
	} else {
		log.Warn("AUTH0_DOMAIN, AUTH0_CLIENT_ID or AUTH0_CLIENT_SECRET missing, login is disabled")
	}
	catalogService := catalog.NewCatalogService(catalogRepository, ownershipRepository)
	dishService := dish.NewDishService(db, dishRepository, catalogRepository, ownershipRepository, s3)
	menuService := menu.NewMenuService(db, menuRepository, ownershipRepository)
	shoppingListService := shoppinglist.NewShoppingListService(
		db,
		shoppingListRepository,
		menuRepository,
		dishRepository,
		catalogRepository,
		ownershipRepository,
		m,
	)
	bugReportService := bugreport.NewBugReportService(bugReportRepository, mailer, cfg.DeveloperEmail)

	// Handler
	userHandler := handlers.NewUserHandler(userService, authService, jwtService.TTL(), cfg.AppURL)
	catalogHandler := handlers.NewCatalogHandler(catalogService, validator)
	dishHandler := handlers.NewDishHandler(dishService, validator)
	menuHandler := handlers.NewMenuHandler(menuService, validator)
	shoppingListHandler := handlers.NewShoppingListHandler(shoppingListService, validator)
	bugReportHandler := handlers.NewBugReportHandler(bugReportService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		CatalogHandler:      catalogHandler,
		DishHandler:         dishHandler,
		MenuHandler:         menuHandler,
		ShoppingListHandler: shoppingListHandler,
		BugReportHandler:    bugReportHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
		Metrics:             m,
	}
	routesConfig.Setup()
	return app, nil
}

func logOutput(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
}
