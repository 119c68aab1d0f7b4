// Package rest exposes the dashboard data as a JSON API for the browser UI.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"racedash/dashboard"
	"racedash/ergast"
	"racedash/models"
)

type gateway interface {
	dashboard.Gateway
	RaceResults(ctx context.Context, season, round string) ergast.Outcome[*models.Race]
	QualifyingResults(ctx context.Context, season, round string) ergast.Outcome[*models.Race]
	SprintResults(ctx context.Context, season, round string) ergast.Outcome[*models.Race]
}

// NewApp builds the fiber application with every route registered.
func NewApp(api gateway, loader *dashboard.Loader, log *slog.Logger) *fiber.App {
	if log == nil {
		log = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "racedash",
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			return respond(c, status, "ERROR", err.Error(), nil)
		},
	})
	app.Use(requestLogger(log))

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return respond(c, fiber.StatusOK, "SUCCESS", "ok", nil)
	})
	InitRestSeason(app, api, loader)

	return app
}

func requestLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("HTTP request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("took", time.Since(start)))
		return err
	}
}
