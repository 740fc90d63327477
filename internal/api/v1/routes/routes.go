// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vmplane/vmplane/internal/api/v1/handlers"
	"github.com/vmplane/vmplane/internal/api/v1/middleware"
	"github.com/vmplane/vmplane/internal/services"
)

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Endpoint paths, relative to APIv1Prefix
const (
	// LoginEndpoint authenticates an operator
	LoginEndpoint = "/users/login"
	// LogoutEndpoint revokes the current session
	LogoutEndpoint = "/users/logout"
	// VMsEndpoint lists and creates VM provisioning jobs
	VMsEndpoint = "/vms"
	// VMsBatchEndpoint creates a batch of VM provisioning jobs
	VMsBatchEndpoint = "/vms/batch"
)

// RegisterRoutes configures all the v1 routes.
//
// NOTE: routes match in registration order, so the /batch route must be
// registered before /:id or fiber would read "batch" as an id.
func RegisterRoutes(
	app *fiber.App,
	vmHandler *handlers.VMHandler,
	userHandler *handlers.UserHandler,
	auth *services.Auth,
) {
	app.Use(middleware.Logger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	v1 := app.Group(APIv1Prefix)

	users := v1.Group("/users")
	users.Post("/login", userHandler.Login)
	users.Post("/logout", userHandler.Logout)

	vms := v1.Group("/vms", middleware.RequireAuth(auth))
	vms.Get("/", vmHandler.ListVMs)
	vms.Post("/", vmHandler.CreateVM)
	vms.Post("/batch", vmHandler.CreateVMBatch)
	vms.Get("/:id", vmHandler.GetVM)
}
