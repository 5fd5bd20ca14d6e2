package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/lwalter/authgate/internal/cache"
	"github.com/lwalter/authgate/internal/config"
	"github.com/lwalter/authgate/internal/database"
	"github.com/lwalter/authgate/internal/domain/auth"
	"github.com/lwalter/authgate/internal/domain/session"
	"github.com/lwalter/authgate/internal/domain/user"
)

// SetupRoutes wires repositories, services and handlers, then registers all
// HTTP routes under /v1.
func SetupRoutes(app *fiber.App, envConfig *config.Environment, cfg *config.Config) error {
	api := app.Group("/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Initialize repositories
	userRepo := user.NewRepository(database.DB)
	sessionRepo := session.NewRepository(database.DB)

	config.ValidateExpiry("JWT_ACCESS_EXPIRY", envConfig.AccessExpiry)
	config.ValidateExpiry("JWT_REFRESH_EXPIRY", envConfig.RefreshExpiry)

	issuer, err := auth.NewIssuer(
		[]byte(envConfig.AccessSecret),
		[]byte(envConfig.RefreshSecret),
		config.ParseExpiry(envConfig.AccessExpiry),
		config.ParseExpiry(envConfig.RefreshExpiry),
		cfg.App.Name,
	)
	if err != nil {
		return err
	}

	// Initialize services
	userService := user.NewService(userRepo, sessionRepo, cfg.Auth.SaltRounds)

	var authService *auth.Service
	if cfg.Redis.Enabled {
		authService = auth.NewServiceWithCache(userRepo, sessionRepo, issuer, cfg.Auth.SaltRounds, cache.NewRevocationCache())
	} else {
		slog.Info("Redis disabled, access token revocation checks are skipped")
		authService = auth.NewService(userRepo, sessionRepo, issuer, cfg.Auth.SaltRounds)
	}

	authHandler := auth.NewHandler(authService, userService)

	// Public auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Authenticated auth routes
	authProtected := api.Group("/auth")
	authProtected.Use(auth.Middleware(authService))
	authProtected.Post("/logout", authHandler.Logout)
	authProtected.Post("/logout-all", authHandler.LogoutAll)
	authProtected.Get("/sessions", authHandler.ListSessions)
	authProtected.Delete("/sessions/:id", authHandler.RevokeSession)

	// User routes
	usersGroup := api.Group("/users")
	usersGroup.Use(auth.Middleware(authService))
	usersGroup.Get("/me", authHandler.Me)
	usersGroup.Patch("/me", authHandler.UpdateMe)

	adminGroup := api.Group("/users")
	adminGroup.Use(auth.Middleware(authService), auth.RequireAdmin())
	adminGroup.Get("/", authHandler.ListUsers)
	adminGroup.Get("/:id", authHandler.GetUser)
	adminGroup.Patch("/:id", authHandler.UpdateUser)
	adminGroup.Delete("/:id", authHandler.DeleteUser)

	return nil
}
