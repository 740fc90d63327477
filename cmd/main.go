package main

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/vmplane/vmplane/config"
	"github.com/vmplane/vmplane/internal/api/v1/handlers"
	"github.com/vmplane/vmplane/internal/api/v1/routes"
	"github.com/vmplane/vmplane/internal/db"
	"github.com/vmplane/vmplane/internal/db/repos"
	"github.com/vmplane/vmplane/internal/logger"
	"github.com/vmplane/vmplane/internal/provision"
	"github.com/vmplane/vmplane/internal/services"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	logger.InitializeAndConfigure()

	port, err := strconv.Atoi(config.GetEnv("DB_PORT", "5432"))
	if err != nil {
		logger.Fatalf("Invalid DB_PORT: %v", err)
	}

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", ""),
		User:     config.GetEnv("DB_USER", ""),
		Password: config.GetEnv("DB_PASSWORD", ""),
		DBName:   config.GetEnv("DB_NAME", ""),
		Port:     port,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	vmRepo := repos.NewVMRepository(database)
	userRepo := repos.NewUserRepository(database)

	executor := provision.NewPowerCLIExecutor(config.GetEnv("VMPLANE_SCRIPT", provision.DefaultScriptPath))
	stagger := config.GetEnvDuration("VMPLANE_STAGGER", services.DefaultStagger)

	vmService := services.NewVMService(vmRepo, executor, stagger)
	authService := services.NewAuthService(userRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	routes.RegisterRoutes(app,
		handlers.NewVMHandler(vmService),
		handlers.NewUserHandler(authService),
		authService,
	)

	listenAddr := ":" + config.GetEnv("PORT", routes.DefaultPort)
	logger.Infof("Starting server on %s", listenAddr)
	if err := app.Listen(listenAddr); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
