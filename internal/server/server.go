// Package server exposes a Provider over the chart service HTTP contract,
// so the client can run against a local demo backend.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/form"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/version"
)

// Config configures the HTTP app.
type Config struct {
	ReadTimeout  time.Duration
	AllowOrigins string
	// Now supplies "today" for the future-date check. Defaults to time.Now.
	Now    func() time.Time
	Logger *logging.Logger
}

// New builds the Fiber app serving GET /api/health and POST /api/chart.
func New(p ephem.Provider, cfg Config) *fiber.App {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	app := fiber.New(fiber.Config{
		AppName:               "ls-natal " + version.Version,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.ReadTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestLogger(cfg.Logger.WithComponent("server")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))

	h := &handler{provider: p, now: cfg.Now, messages: form.DefaultMessages}
	api := app.Group("/api")
	{
		api.Get("/health", h.health)
		api.Post("/chart", h.chart)
	}

	return app
}

// Run serves app on addr until ctx is canceled, then shuts down.
func Run(ctx context.Context, app *fiber.App, addr string, log *logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("chart service listening on %s", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down chart service")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// requestLogger tags each request with an ID and logs its outcome.
func requestLogger(log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)

		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		log.With(logging.Fields{"request_id": id}).
			Info("%d %s %s (%v)", status, c.Method(), c.Path(), time.Since(start))
		return err
	}
}

// errorHandler renders every error as {"detail": message}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"detail": message,
	})
}
