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

// ComplaintController handles free-text complaints and their resolution
type ComplaintController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewComplaintController(db *mongo.Client) *ComplaintController {
	return &ComplaintController{
		DB:     db,
		logger: log.New(os.Stdout, "[COMPLAINT] ", log.LstdFlags),
	}
}

func (cc *ComplaintController) GetComplaints(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter, errResp := requestHistoryFilter(c)
	if errResp != nil {
		return c.JSON(errResp.Status, errResp)
	}

	collection := config.GetCollection(cc.DB, "complaints")
	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		cc.logger.Printf("Failed to fetch complaints: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch complaints",
		})
	}
	defer cursor.Close(ctx)

	complaints := []models.Complaint{}
	if err := cursor.All(ctx, &complaints); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode complaints",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Complaints retrieved successfully",
		Data:    complaints,
	})
}

// CreateComplaint files a pending complaint against one of the caller's
// platform accounts
func (cc *ComplaintController) CreateComplaint(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.ComplaintCreate
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
			Message: "Account username and message are required",
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
	if err := config.GetCollection(cc.DB, "users").
		FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User not found",
		})
	}

	now := time.Now()
	complaint := models.Complaint{
		UserID:          userID,
		UserFullName:    user.FullName,
		AccountUsername: utils.SanitizeInput(req.AccountUsername),
		Message:         utils.SanitizeInput(req.Message),
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	collection := config.GetCollection(cc.DB, "complaints")
	result, err := collection.InsertOne(ctx, complaint)
	if err != nil {
		cc.logger.Printf("Failed to create complaint: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create complaint",
		})
	}
	complaint.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Complaint submitted successfully",
		Data:    complaint,
	})
}

// UpdateComplaintStatus moves a complaint between pending and resolved
func (cc *ComplaintController) UpdateComplaintStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid complaint ID",
			Code:    models.CodeInvalidInput,
		})
	}

	var req models.ComplaintStatusUpdate
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
			Message: "Status must be pending or resolved",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(cc.DB, "complaints")
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"status":    req.Status,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		cc.logger.Printf("Failed to update complaint %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update complaint",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Complaint not found",
			Code:    models.CodeNotFound,
		})
	}

	message := "Complaint reopened"
	if req.Status == models.StatusResolved {
		message = "Complaint resolved successfully"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
	})
}

func (cc *ComplaintController) DeleteComplaint(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid complaint ID",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(cc.DB, "complaints")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		cc.logger.Printf("Failed to delete complaint %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete complaint",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Complaint not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Complaint deleted successfully",
	})
}
