package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindexch/mindexch_backend/controllers"
	"github.com/mindexch/mindexch_backend/middleware"
	"github.com/mindexch/mindexch_backend/models"
	"github.com/mindexch/mindexch_backend/repositories"
)

// RegisterAuthRoutes wires authentication and user management.
// Register, login and the dashboard's status poll stay public; user
// management is admin-only.
func RegisterAuthRoutes(public, protected *echo.Group, db *mongo.Client) {
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db, repositories.NewUserRepository(db))

	auth := public.Group("/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.GET("/user-status/:id", authController.UserStatus)

	protectedAuth := protected.Group("/auth")
	protectedAuth.POST("/logout", authController.Logout)

	users := protectedAuth.Group("/users", middleware.RequireRole(models.RoleAdmin))
	users.GET("", userController.GetUsers)
	users.GET("/stats", userController.GetUserStats)
	users.PATCH("/:id", userController.UpdateUser)
	users.PATCH("/:id/status", userController.ToggleUserStatus)
	users.DELETE("/:id", userController.DeleteUser)
}
