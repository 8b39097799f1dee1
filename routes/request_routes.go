package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindexch/mindexch_backend/controllers"
	"github.com/mindexch/mindexch_backend/middleware"
	"github.com/mindexch/mindexch_backend/models"
)

// RegisterRequestRoutes wires the four request workflows. Bettors create
// and list (scoped to themselves inside the controllers); decisions and
// deletes are admin-only.
func RegisterRequestRoutes(protected *echo.Group, db *mongo.Client) {
	accountController := controllers.NewAccountRequestController(db)
	depositController := controllers.NewDepositController(db)
	withdrawController := controllers.NewWithdrawController(db)
	complaintController := controllers.NewComplaintController(db)

	adminOnly := middleware.RequireRole(models.RoleAdmin)

	accounts := protected.Group("/account-requests")
	accounts.GET("", accountController.GetAccountRequests)
	accounts.POST("", accountController.CreateAccountRequest)
	accounts.PATCH("/:id/approve", accountController.ApproveAccountRequest, adminOnly)
	accounts.PATCH("/:id/update", accountController.UpdateAccountDetails, adminOnly)
	accounts.DELETE("/:id", accountController.DeleteAccountRequest, adminOnly)

	deposits := protected.Group("/deposit-requests")
	deposits.GET("", depositController.GetDepositRequests)
	deposits.POST("", depositController.CreateDepositRequest)
	deposits.PUT("/:id", depositController.UpdateDepositStatus, adminOnly)
	deposits.DELETE("/:id", depositController.DeleteDepositRequest, adminOnly)

	withdrawals := protected.Group("/withdraw-requests")
	withdrawals.GET("", withdrawController.GetWithdrawRequests)
	withdrawals.POST("", withdrawController.CreateWithdrawRequest)
	withdrawals.PUT("/:id", withdrawController.UpdateWithdrawStatus, adminOnly)
	withdrawals.DELETE("/:id", withdrawController.DeleteWithdrawRequest, adminOnly)

	complaints := protected.Group("/complaints")
	complaints.GET("", complaintController.GetComplaints)
	complaints.POST("", complaintController.CreateComplaint)
	complaints.PATCH("/:id/status", complaintController.UpdateComplaintStatus, adminOnly)
	complaints.DELETE("/:id", complaintController.DeleteComplaint, adminOnly)
}
