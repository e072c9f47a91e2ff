package main

import (
	"context"
	"fmt"
	"os"

	"github.com/callready/scriptd/cmd/scriptd/container"
	"github.com/callready/scriptd/cmd/scriptd/handlers"
	"github.com/callready/scriptd/cmd/scriptd/routes"
	"github.com/callready/scriptd/common/bootstrap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (store, logger, cache)
	components, err := bootstrap.Setup(ctx, "scriptd")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap scriptd: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e)
	setupHealthCheck(e, components)
	registerRoutes(e, serviceContainer)

	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": "scriptd",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterScriptRoutes(e, serviceContainer)
	routes.RegisterTemplateRoutes(e, serviceContainer)
}

// startServer starts the Echo server on the configured port
func startServer(e *echo.Echo, components *bootstrap.Components) {
	port := components.Config.Service.Port
	components.Logger.Info("starting scriptd", "port", port)

	if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
