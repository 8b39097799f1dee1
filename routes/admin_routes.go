package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindexch/mindexch_backend/controllers"
	"github.com/mindexch/mindexch_backend/middleware"
	"github.com/mindexch/mindexch_backend/models"
)

// RegisterCatalogRoutes wires the exchange catalog and the deposit
// destination bank accounts. Reads are open to any authenticated user
// because the deposit and new-account screens render from them; all
// mutations are admin-only.
func RegisterCatalogRoutes(protected *echo.Group, db *mongo.Client) {
	exchangeController := controllers.NewExchangeController(db)
	bankController := controllers.NewBankAccountController(db)

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	exchanges := protected.Group("/exchanges")
	exchanges.GET("", exchangeController.GetExchanges)
	exchanges.POST("", exchangeController.CreateExchange, adminOnly)
	exchanges.PUT("/:id", exchangeController.UpdateExchange, adminOnly)
	exchanges.DELETE("/:id", exchangeController.DeleteExchange, adminOnly)

	banks := protected.Group("/bank-accounts")
	banks.GET("", bankController.GetBankAccounts)
	banks.POST("", bankController.CreateBankAccount, adminOnly)
	banks.PATCH("/:id", bankController.UpdateBankAccount, adminOnly)
	banks.DELETE("/:id", bankController.DeleteBankAccount, adminOnly)
}
