package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindexch/mindexch_backend/config"
	"github.com/mindexch/mindexch_backend/middleware"
	"github.com/mindexch/mindexch_backend/models"
	"github.com/mindexch/mindexch_backend/utils"
)

// WithdrawController handles bank-transfer payout requests
type WithdrawController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewWithdrawController(db *mongo.Client) *WithdrawController {
	return &WithdrawController{
		DB:     db,
		logger: log.New(os.Stdout, "[WITHDRAW] ", log.LstdFlags),
	}
}

func (wc *WithdrawController) GetWithdrawRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter, errResp := requestHistoryFilter(c)
	if errResp != nil {
		return c.JSON(errResp.Status, errResp)
	}

	collection := config.GetCollection(wc.DB, "withdrawRequests")
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		wc.logger.Printf("Failed to fetch withdraw requests: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch withdraw requests",
		})
	}
	defer cursor.Close(ctx)

	requests := []models.WithdrawRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode withdraw requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdraw requests retrieved successfully",
		Data:    requests,
	})
}

// CreateWithdrawRequest validates the fixed withdrawal floor and the bank
// transfer details, then stores the pending request. Unlike deposits there
// is no exchange-catalog lookup; the caller only needs an approved account
// on the platform.
func (wc *WithdrawController) CreateWithdrawRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.WithdrawRequestCreate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Platform, amount and bank transfer details are required",
			Code:    models.CodeInvalidInput,
		})
	}
	if err := utils.ValidateAccountNumber(req.AccountNumber); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Code:    models.CodeInvalidInput,
		})
	}

	userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var user models.User
	if err := config.GetCollection(wc.DB, "users").
		FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User not found",
		})
	}

	amount, err := utils.ParseAmount(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Please enter a valid amount",
			Code:    models.CodeInvalidInput,
		})
	}
	if amount < models.MinWithdrawAmount {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Minimum withdrawal amount is 500 PKR",
			Code:    models.CodeBelowMinimum,
		})
	}

	cursor, err := config.GetCollection(wc.DB, "accountRequests").
		Find(ctx, bson.M{"userId": userID, "status": models.StatusApproved})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify account",
		})
	}
	var accountRequests []models.AccountRequest
	if err := cursor.All(ctx, &accountRequests); err != nil {
		cursor.Close(ctx)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify account",
		})
	}

	if len(accountRequests) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "You need an approved account before withdrawing",
			Code:    models.CodeNoApprovedAcct,
		})
	}

	// Best-effort credential join; a missing match stores the sentinel
	accountUsername := models.ResolveAccountUsername(accountRequests, userID, req.Platform)

	request := models.WithdrawRequest{
		UserID:          userID,
		UserFullName:    user.FullName,
		Platform:        req.Platform,
		Amount:          amount,
		Method:          "bank",
		BankName:        utils.SanitizeInput(req.BankName),
		AccountNumber:   req.AccountNumber,
		AccountTitle:    utils.SanitizeInput(req.AccountTitle),
		AccountUsername: accountUsername,
		Status:          models.StatusPending,
		CreatedAt:       time.Now(),
	}

	collection := config.GetCollection(wc.DB, "withdrawRequests")
	result, err := collection.InsertOne(ctx, request)
	if err != nil {
		wc.logger.Printf("Failed to create withdraw request: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create withdraw request",
		})
	}
	request.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdraw request submitted successfully",
		Data:    request,
	})
}

// UpdateWithdrawStatus mirrors the deposit decision: approval stamps
// processedAt, rejection deletes the document.
func (wc *WithdrawController) UpdateWithdrawStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
			Code:    models.CodeInvalidInput,
		})
	}

	var req models.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be approved or rejected",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(wc.DB, "withdrawRequests")

	if req.Status == models.StatusRejected {
		if _, err := collection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
			wc.logger.Printf("Failed to reject withdrawal %s: %v", objID.Hex(), err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to reject withdraw request",
			})
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Withdraw request rejected and removed",
		})
	}

	now := time.Now()
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"status":      models.StatusApproved,
		"processedAt": now,
	}})
	if err != nil {
		wc.logger.Printf("Failed to approve withdrawal %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to approve withdraw request",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Withdraw request not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdraw request approved successfully",
	})
}

func (wc *WithdrawController) DeleteWithdrawRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request ID",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(wc.DB, "withdrawRequests")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		wc.logger.Printf("Failed to delete withdrawal %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete withdraw request",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Withdraw request not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdraw request deleted successfully",
	})
}
