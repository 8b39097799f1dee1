package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindexch/mindexch_backend/middleware"
)

// SetupRoutes registers every route group. Protected routes stack the JWT
// check, the idle-session guard (which also refreshes the idle countdown)
// and the last-activity tracker.
func SetupRoutes(e *echo.Echo, db *mongo.Client) {
	api := e.Group("/api")

	protected := e.Group("/api",
		middleware.JWTMiddleware(),
		middleware.SessionGuard(),
		middleware.ActivityTracker(db),
	)

	RegisterAuthRoutes(api, protected, db)
	RegisterCatalogRoutes(protected, db)
	RegisterRequestRoutes(protected, db)
}
