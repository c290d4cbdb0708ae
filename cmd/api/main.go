package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-portal/internal/common/api"
	"go-portal/internal/config"
	"go-portal/internal/database"
	"go-portal/internal/features/billing"
	"go-portal/internal/features/builder"
	"go-portal/internal/features/export"
	"go-portal/internal/features/feedback"
	"go-portal/internal/features/housekeeping"
	"go-portal/internal/features/identity"
	"go-portal/internal/features/portal"
	"go-portal/internal/features/realtime"
	"go-portal/internal/features/system"
	"go-portal/internal/logger"
	"go-portal/internal/middleware"
	"go-portal/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeStores ensures document-store indexes and relational schema
// exist before traffic arrives.
func InitializeStores(lc fx.Lifecycle, portalRepo portal.PortalRepository, feedbackRepo feedback.FeedbackRepository, identityRepo identity.IdentityRepository, billingRepo billing.BillingRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			if err := identityRepo.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("identity schema: %w", err)
			}
			if err := billingRepo.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("billing schema: %w", err)
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := portalRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure portal indexes: %v", err)
				}
				if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure feedback indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Databases
			database.NewDatabase,
			database.NewPostgres,

			// Initialize Repository
			portal.NewPortalRepository,
			feedback.NewFeedbackRepository,
			identity.NewIdentityRepository,
			billing.NewBillingRepository,

			identity.NewBcryptHasher,
			realtime.NewHub,

			identity.NewIdentityService,
			portal.NewPortalService,
			feedback.NewFeedbackService,
			builder.NewBuilderService,
			billing.NewBillingService,
			export.NewExportService,
			housekeeping.NewHousekeepingService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(s identity.IdentityService) portal.UserFinder { return s },
			func(h *realtime.Hub) feedback.Notifier { return h },

			// Initialize Controller
			identity.NewIdentityController,
			portal.NewPortalController,
			feedback.NewFeedbackController,
			builder.NewBuilderController,
			billing.NewBillingController,
			export.NewExportController,
			realtime.NewRealtimeController,

			// Initialize API Routes
			AsRoute(identity.NewIdentityApi),
			AsRoute(portal.NewPortalApi),
			AsRoute(feedback.NewFeedbackApi),
			AsRoute(builder.NewBuilderApi),
			AsRoute(billing.NewBillingApi),
			AsRoute(export.NewExportApi),
			AsRoute(realtime.NewRealtimeApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, sweeper housekeeping.HousekeepingService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return sweeper.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return sweeper.StopScheduler()
					},
				})
			},
			InitializeStores,
		),
	)

	app.Run()
}
