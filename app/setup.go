package app

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/taskhive/go-tasks/auth"
	"github.com/taskhive/go-tasks/config"
	"github.com/taskhive/go-tasks/database"
	"github.com/taskhive/go-tasks/events"
	"github.com/taskhive/go-tasks/handlers"
	"github.com/taskhive/go-tasks/middleware"
	"github.com/taskhive/go-tasks/router"
	"github.com/taskhive/go-tasks/store"
)

// SetupAndRunApp loads configuration, connects storage, assembles the
// Fiber app, and serves until the process ends.
func SetupAndRunApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Connect(context.Background(), cfg.PostgresURI)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return err
	}

	hub := events.NewHub()
	if cfg.MQTTURL != "" {
		publisher, err := events.NewMQTTPublisher(cfg.MQTTURL, cfg.MQTTTopicBase)
		if err != nil {
			// event mirroring is best-effort; the API runs without it
			log.Printf("MQTT publisher disabled: %v", err)
		} else {
			defer publisher.Close()
			hub.AttachSink(publisher)
		}
	}

	app := New(cfg, db, hub)

	config.AddSwaggerRoutes(app)

	return app.Listen(":" + cfg.Port)
}

// New assembles the Fiber app with all middleware and routes wired. The
// test suite builds apps through this same path against a test database.
func New(cfg config.Config, db *sql.DB, hub *events.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
	}))

	users := store.NewUsers(db)
	todos := store.NewTodos(db)
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL())

	router.SetupRoutes(app, router.Handlers{
		Auth:        handlers.NewAuth(users, tokens, hub),
		Todos:       handlers.NewTodos(todos, hub),
		Users:       handlers.NewUsers(users, hub),
		Events:      handlers.NewEvents(hub),
		RequireUser: middleware.RequireUser(tokens, users),
	})

	return app
}
