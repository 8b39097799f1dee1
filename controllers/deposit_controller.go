package controllers

import (
	"context"
	"errors"
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

// DepositController handles deposit submissions with proof screenshots and
// the admin's approve/reject decisions
type DepositController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewDepositController(db *mongo.Client) *DepositController {
	return &DepositController{
		DB:     db,
		logger: log.New(os.Stdout, "[DEPOSIT] ", log.LstdFlags),
	}
}

// GetDepositRequests lists deposits, newest first. Bettors see only their
// own; admins may scope with ?userId=.
func (dc *DepositController) GetDepositRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter, errResp := requestHistoryFilter(c)
	if errResp != nil {
		return c.JSON(errResp.Status, errResp)
	}

	collection := config.GetCollection(dc.DB, "depositRequests")
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		dc.logger.Printf("Failed to fetch deposit requests: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch deposit requests",
		})
	}
	defer cursor.Close(ctx)

	requests := []models.DepositRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode deposit requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit requests retrieved successfully",
		Data:    requests,
	})
}

// CreateDepositRequest validates a deposit against the live exchange
// catalog, compresses the proof screenshot and stores the pending request.
// The credential username is joined server-side from the caller's approved
// account on the platform.
func (dc *DepositController) CreateDepositRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var req models.DepositRequestCreate
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
			Message: "Platform, amount, method and transaction ID are required",
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
	if err := config.GetCollection(dc.DB, "users").
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

	// The platform must still exist; its minimum applies at submit time
	exchanges, err := dc.loadExchanges(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify platform",
		})
	}
	minDeposit, exists := models.MinDepositFor(exchanges, req.Platform)
	if !exists {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Selected platform no longer exists",
			Code:    models.CodeUnknownPlatform,
		})
	}
	if amount < float64(minDeposit) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Amount is below the platform minimum deposit",
			Code:    models.CodeBelowMinimum,
		})
	}

	accountRequests, err := dc.loadAccountRequests(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify account",
		})
	}

	// At least one approved account on a platform that still exists;
	// approvals on deleted platforms don't count
	hasApproved := false
	for _, ar := range accountRequests {
		if _, ok := models.MinDepositFor(exchanges, ar.Platform); ok {
			hasApproved = true
			break
		}
	}
	if !hasApproved {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "You need an approved account before depositing",
			Code:    models.CodeNoApprovedAcct,
		})
	}

	// Best-effort credential join; a missing match stores the sentinel
	// instead of failing the submission
	accountUsername := models.ResolveAccountUsername(accountRequests, userID, req.Platform)

	if req.ScreenshotData == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A payment proof screenshot is required",
			Code:    models.CodeMissingProof,
		})
	}
	compressed, err := utils.CompressScreenshot(req.ScreenshotData)
	if err != nil {
		status := http.StatusBadRequest
		code := models.CodeInvalidInput
		if errors.Is(err, utils.ErrScreenshotTooLarge) {
			code = models.CodeMissingProof
		}
		return c.JSON(status, models.Response{
			Status:  status,
			Message: err.Error(),
			Code:    code,
		})
	}

	request := models.DepositRequest{
		UserID:          userID,
		UserFullName:    user.FullName,
		Platform:        req.Platform,
		Amount:          amount,
		Method:          req.Method,
		TransactionID:   req.TransactionID,
		AccountUsername: accountUsername,
		Screenshot:      req.Screenshot,
		ScreenshotData:  compressed,
		Status:          models.StatusPending,
		CreatedAt:       time.Now(),
	}

	collection := config.GetCollection(dc.DB, "depositRequests")
	result, err := collection.InsertOne(ctx, request)
	if err != nil {
		dc.logger.Printf("Failed to create deposit request: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create deposit request",
		})
	}
	request.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Deposit request submitted successfully",
		Data:    request,
	})
}

// UpdateDepositStatus applies the admin decision. Approval stamps
// processedAt; rejection deletes the document so no rejected entry survives
// in history. Rejecting an already-gone request still succeeds.
func (dc *DepositController) UpdateDepositStatus(c echo.Context) error {
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

	collection := config.GetCollection(dc.DB, "depositRequests")

	if req.Status == models.StatusRejected {
		if _, err := collection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
			dc.logger.Printf("Failed to reject deposit %s: %v", objID.Hex(), err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to reject deposit request",
			})
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Deposit request rejected and removed",
		})
	}

	now := time.Now()
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"status":      models.StatusApproved,
		"processedAt": now,
	}})
	if err != nil {
		dc.logger.Printf("Failed to approve deposit %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to approve deposit request",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Deposit request not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit request approved successfully",
	})
}

func (dc *DepositController) DeleteDepositRequest(c echo.Context) error {
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

	collection := config.GetCollection(dc.DB, "depositRequests")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		dc.logger.Printf("Failed to delete deposit %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete deposit request",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Deposit request not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Deposit request deleted successfully",
	})
}

func (dc *DepositController) loadExchanges(ctx context.Context) ([]models.Exchange, error) {
	cursor, err := config.GetCollection(dc.DB, "exchanges").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exchanges []models.Exchange
	if err := cursor.All(ctx, &exchanges); err != nil {
		return nil, err
	}
	return exchanges, nil
}

func (dc *DepositController) loadAccountRequests(ctx context.Context, userID primitive.ObjectID) ([]models.AccountRequest, error) {
	cursor, err := config.GetCollection(dc.DB, "accountRequests").
		Find(ctx, bson.M{"userId": userID, "status": models.StatusApproved})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.AccountRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// requestHistoryFilter scopes a request-history listing: bettors to their
// own documents, admins to everything or an explicit ?userId=.
func requestHistoryFilter(c echo.Context) (bson.M, *models.Response) {
	filter := bson.M{}
	if middleware.ExtractRole(c) != models.RoleAdmin {
		objID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
		if err != nil {
			return nil, &models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid token",
			}
		}
		filter["userId"] = objID
		return filter, nil
	}
	if userID := c.QueryParam("userId"); userID != "" {
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, &models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID",
				Code:    models.CodeInvalidInput,
			}
		}
		filter["userId"] = objID
	}
	return filter, nil
}
