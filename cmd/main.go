package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"github.com/fathima-sithara/social-connect/internal/bootstrap"
	"github.com/fathima-sithara/social-connect/internal/middleware"
	"github.com/fathima-sithara/social-connect/internal/routes"
)

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	appCtx, cleanup, err := bootstrap.Init(configPath)
	if err != nil {
		panic(err)
	}
	logger := appCtx.Logger

	app := fiber.New(fiber.Config{
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    50 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     appCtx.Config.App.FrontendURL,
		AllowCredentials: true,
	}))

	routes.Setup(app, appCtx.Handler, middleware.RequireAuth(appCtx.JWT))

	go func() {
		addr := fmt.Sprintf(":%d", appCtx.Config.App.Port)
		logger.Infof("server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), appCtx.Config.ShutdownTimeout)
	defer cancel()
	_ = app.Shutdown()
	cleanup(ctx)
	logger.Info("shutdown completed")
}
