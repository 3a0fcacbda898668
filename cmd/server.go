package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/hireform/pkg/errx"
	"github.com/Abraxas-365/hireform/pkg/logx"
	"github.com/Abraxas-365/hireform/recruitment/application/applicationapi"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// pinger is implemented by cache adapters backed by a remote server
type pinger interface {
	Ping(ctx context.Context) error
}

// newApp builds the fiber app with middleware and routes
func newApp(c *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               c.Config.App.Name,
		DisableStartupMessage: true,
		BodyLimit:             c.Config.Server.BodyLimit,
		ErrorHandler:          globalErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: c.Config.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, HEAD, OPTIONS",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(ctx *fiber.Ctx) error {
		status := fiber.Map{
			"status":  "ok",
			"storage": c.Config.Storage.Driver,
			"cache":   c.Config.Cache.Driver,
		}
		if c.DB != nil {
			status["db"] = c.DB.PingContext(ctx.UserContext()) == nil
		}
		if p, ok := c.LatestCache.(pinger); ok {
			status["redis"] = p.Ping(ctx.UserContext()) == nil
		}
		return ctx.JSON(status)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	applicationapi.RegisterRoutes(app, c.ApplicationHandlers)

	return app
}

// runServer serves until ctx is cancelled or SIGINT/SIGTERM arrives
func runServer(ctx context.Context, c *Container) error {
	if err := c.Repository.Init(ctx); err != nil {
		return err
	}

	app := newApp(c)
	addr := c.Config.Server.Addr()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logx.Infof("Server listening on %s", addr)
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		logx.Info("Shutting down server...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logx.Info("Server exited")
	return nil
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// If it's a Fiber error (e.g., 404 handler not found)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	var e *errx.Error
	if errors.As(err, &e) {
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.Errorw("Request failed",
				"method", c.Method(),
				"path", c.Path(),
				"code", e.Code.String(),
				"error", e.Error(),
			)
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
