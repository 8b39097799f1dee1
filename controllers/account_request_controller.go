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

// AccountRequestController handles asks for exchange accounts and their
// admin approval lifecycle
type AccountRequestController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewAccountRequestController(db *mongo.Client) *AccountRequestController {
	return &AccountRequestController{
		DB:     db,
		logger: log.New(os.Stdout, "[ACCOUNT] ", log.LstdFlags),
	}
}

// GetAccountRequests lists requests, optionally scoped with ?userId=.
// Bettors are always scoped to their own requests regardless of the query.
func (arc *AccountRequestController) GetAccountRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter, errResp := requestHistoryFilter(c)
	if errResp != nil {
		return c.JSON(errResp.Status, errResp)
	}

	collection := config.GetCollection(arc.DB, "accountRequests")
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		arc.logger.Printf("Failed to fetch account requests: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch account requests",
		})
	}
	defer cursor.Close(ctx)

	requests := []models.AccountRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode account requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account requests retrieved successfully",
		Data:    requests,
	})
}

// CreateAccountRequest files a pending ask for an account on a platform.
// The platform must exist in the current catalog.
func (arc *AccountRequestController) CreateAccountRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.AccountRequestCreate
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
			Message: "Platform and username are required",
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
	if err := config.GetCollection(arc.DB, "users").
		FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User not found",
		})
	}

	count, err := config.GetCollection(arc.DB, "exchanges").
		CountDocuments(ctx, bson.M{"name": req.Platform})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to verify platform",
		})
	}
	if count == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Selected platform no longer exists",
			Code:    models.CodeUnknownPlatform,
		})
	}

	now := time.Now()
	request := models.AccountRequest{
		UserID:       userID,
		UserFullName: user.FullName,
		Platform:     req.Platform,
		Username:     utils.SanitizeInput(req.Username),
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	collection := config.GetCollection(arc.DB, "accountRequests")
	result, err := collection.InsertOne(ctx, request)
	if err != nil {
		arc.logger.Printf("Failed to create account request: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account request",
		})
	}
	request.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account request submitted successfully",
		Data:    request,
	})
}

// ApproveAccountRequest attaches credentials and flips a pending request to
// approved. All four credential fields are mandatory; the transition is a
// single document update.
func (arc *AccountRequestController) ApproveAccountRequest(c echo.Context) error {
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

	var req models.ApproveAccountRequest
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
			Message: models.ErrIncompleteApproval.Error(),
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(arc.DB, "accountRequests")

	var request models.AccountRequest
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&request); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Account request not found",
				Code:    models.CodeNotFound,
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch account request",
		})
	}

	if err := request.Approve(req, time.Now()); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, models.ErrNotPending) {
			status = http.StatusConflict
		}
		return c.JSON(status, models.Response{
			Status:  status,
			Message: err.Error(),
			Code:    models.CodeConflict,
		})
	}

	// Guard on pending so a concurrent approval cannot double-apply
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": objID, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":         request.Status,
			"accountDetails": request.AccountDetails,
			"updatedAt":      request.UpdatedAt,
		}})
	if err != nil {
		arc.logger.Printf("Failed to approve account request %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to approve account request",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: models.ErrNotPending.Error(),
			Code:    models.CodeConflict,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account request approved successfully",
		Data:    request,
	})
}

// UpdateAccountDetails edits the embedded credentials of an approved
// request. Empty fields are left as they are.
func (arc *AccountRequestController) UpdateAccountDetails(c echo.Context) error {
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

	var patch models.UpdateAccountDetailsRequest
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}
	if patch.Status != "" && patch.Status != models.AccountActive && patch.Status != models.AccountInactive {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Status must be active or inactive",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(arc.DB, "accountRequests")

	var request models.AccountRequest
	if err := collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&request); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Account request not found",
				Code:    models.CodeNotFound,
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch account request",
		})
	}

	if err := request.ApplyDetailsPatch(patch, time.Now()); err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
			Code:    models.CodeConflict,
		})
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"accountDetails": request.AccountDetails,
		"updatedAt":      request.UpdatedAt,
	}})
	if err != nil {
		arc.logger.Printf("Failed to update account details %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update account details",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account details updated successfully",
		Data:    request,
	})
}

// DeleteAccountRequest removes a request outright (the admin's reject)
func (arc *AccountRequestController) DeleteAccountRequest(c echo.Context) error {
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

	collection := config.GetCollection(arc.DB, "accountRequests")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		arc.logger.Printf("Failed to delete account request %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete account request",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Account request not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Account request deleted successfully",
	})
}
