package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tienda/internal/handlers"
	"tienda/internal/middleware"
	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/services"
)

func init() {
	// Money is written as a JSON number, like the store columns.
	decimal.MarshalJSONWithoutQuotes = true
}

// Deps are the collaborators of the HTTP application. Publisher, Idempotency
// and AccessLog are optional.
type Deps struct {
	DB               *gorm.DB
	Log              *zap.Logger
	Publisher        services.EventPublisher
	Idempotency      handlers.IdempotencyStore
	Gateway          services.ChargeGateway
	JWTSecret        string
	TokenTTL         time.Duration
	RequestTimeout   time.Duration
	StrictOrderTotal bool
	Currency         string
	AccessLog        bool
}

// App is the assembled Fiber application with its services.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService
}

// New builds repositories, services and handlers and registers every route.
func New(deps Deps) *App {
	log := deps.Log

	userRepo := repositories.NewGORMUserRepository(deps.DB)
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)
	favoriteRepo := repositories.NewGORMFavoriteRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.JWTSecret, deps.TokenTTL, log)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo)

	orderOpts := []services.OrderServiceOption{services.WithStrictTotal(deps.StrictOrderTotal)}
	if deps.Publisher != nil {
		orderOpts = append(orderOpts, services.WithPublisher(deps.Publisher))
	}
	orderService := services.NewOrderService(orderRepo, log, orderOpts...)
	checkoutService := services.NewCheckoutService(orderService, deps.Gateway, deps.Currency, log)

	app := fiber.New(fiber.Config{
		AppName: "tienda",
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if deps.AccessLog {
		app.Use(logger.New())
	}

	adminOnly := []fiber.Handler{
		middleware.AuthRequired(authService, log),
		middleware.RequireRole(models.RoleAdmin),
	}

	handlers.NewHealthHandler(deps.DB, log).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, log, deps.RequestTimeout).RegisterRoutes(app)
	handlers.NewUserHandler(userService, log, deps.RequestTimeout).RegisterRoutes(app, adminOnly...)
	handlers.NewProductHandler(productService, log, deps.RequestTimeout).RegisterRoutes(app, adminOnly...)
	handlers.NewFavoriteHandler(favoriteService, log, deps.RequestTimeout).RegisterRoutes(app)
	handlers.NewOrderHandler(orderService, deps.Idempotency, log, deps.RequestTimeout).RegisterRoutes(app, adminOnly...)
	handlers.NewPaymentHandler(checkoutService, log, deps.RequestTimeout).RegisterRoutes(app)

	return &App{Fiber: app, Auth: authService}
}
