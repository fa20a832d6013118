package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/handlers"
	"github.com/ceh6514/mavwalk/server/internal/middleware"
	"github.com/ceh6514/mavwalk/server/internal/moderation"
	"github.com/ceh6514/mavwalk/server/internal/routing"
	"github.com/ceh6514/mavwalk/server/internal/services"
	"github.com/ceh6514/mavwalk/server/internal/telemetry"
	"github.com/ceh6514/mavwalk/server/pkg/email"
	"github.com/ceh6514/mavwalk/server/pkg/push"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// @title MavWalk API
// @version 1.0.0
// @description Campus walking buddy API
// @BasePath /v1
// @schemes https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "mavwalk-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, "mavwalk-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("Failed to seed locations: %v", err)
	}

	// Content moderation filter with extra dictionary terms from config
	filter := moderation.NewFilter(nil, moderation.ParseExtraTerms(cfg.ProfanityExtraTerms))

	// Routing provider selection
	var provider routing.Provider
	switch cfg.RoutingProvider {
	case "osrm":
		provider = routing.NewOSRMProvider(cfg.OSRMBaseURL,
			time.Duration(cfg.OSRMTimeoutSeconds)*time.Second)
		log.Printf("[Routing] OSRM provider at %s", cfg.OSRMBaseURL)
	default:
		provider = routing.NewSeededProvider()
		log.Println("[Routing] seeded provider, on-demand fetch disabled")
	}

	routeService := services.NewRouteService(db, cfg, provider)
	walkService := services.NewWalkService(db, cfg, routeService,
		push.GetFCMService(), email.NewEmailService(cfg))

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MavWalk API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "America/Chicago",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "mavwalk-api",
	}))
	app.Use(middleware.PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type",
		MaxAge:           86400,
	}))

	setupRoutes(app, db, cfg, filter, routeService, walkService)

	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config,
	filter *moderation.Filter, routeService *services.RouteService, walkService *services.WalkService) {

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/healthz", handlers.HealthCheck)
	app.Get("/v1/health", handlers.HealthCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))
	app.Get("/v1/liveness", handlers.LivenessCheck)

	// Prometheus scrape endpoint, internal network only
	app.Get("/metrics", middleware.InternalOnly(), middleware.PrometheusHandler())

	// API v1 group
	v1 := app.Group("/v1")

	// Auth routes (no auth required except device management)
	auth := v1.Group("/auth")
	handlers.SetupAuthRoutes(auth, db, cfg)

	// Locations routes (public)
	handlers.SetupLocationRoutes(v1, db)

	// Routes routes (public)
	handlers.SetupRouteRoutes(v1, routeService)

	// Messages routes (create/list public, review requires staff)
	handlers.SetupMessageRoutes(v1, db, cfg, filter)

	// Walks routes (auth required)
	walks := v1.Group("/", middleware.AuthRequired(cfg))
	handlers.SetupWalkRoutes(walks, walkService)
}
