package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/RoomSageApp/RoomSage/app/repository"
	"github.com/RoomSageApp/RoomSage/internal/pkg/cache"
	"github.com/RoomSageApp/RoomSage/internal/pkg/database"
	"github.com/RoomSageApp/RoomSage/internal/pkg/env"
	"github.com/RoomSageApp/RoomSage/internal/pkg/metrics/counter"
	"github.com/RoomSageApp/RoomSage/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "8080")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitGlobalFactory(database.GetDB())

	// Find the correct base path so docs resolve when started from cmd/
	basePaths := []string{
		"./",
		"../../",
	}
	basePath := "./"
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // room photos only, 20 MiB is plenty
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	// Periodically drain the analysis run counters into the database
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if err := counter.FlushAnalysisRuns(); err != nil {
				fiberlog.Warnf("[Main] analysis counter flush failed: %v", err)
			}
		}
	}()

	return app
}
