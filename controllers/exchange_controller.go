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
	"github.com/mindexch/mindexch_backend/models"
	"github.com/mindexch/mindexch_backend/utils"
)

// ExchangeController manages the betting-platform catalog
type ExchangeController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewExchangeController(db *mongo.Client) *ExchangeController {
	return &ExchangeController{
		DB:     db,
		logger: log.New(os.Stdout, "[EXCHANGE] ", log.LstdFlags),
	}
}

// GetExchanges lists every platform. Public to authenticated users: the
// deposit and new-account screens need the catalog and its minimums.
func (ec *ExchangeController) GetExchanges(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ec.DB, "exchanges")
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		ec.logger.Printf("Failed to fetch exchanges: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch exchanges",
		})
	}
	defer cursor.Close(ctx)

	exchanges := []models.Exchange{}
	if err := cursor.All(ctx, &exchanges); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode exchanges",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Exchanges retrieved successfully",
		Data:    exchanges,
	})
}

// CreateExchange adds a platform. The minimum deposit arrives as free text
// from the admin form and falls back to the default when unparseable.
func (ec *ExchangeController) CreateExchange(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.ExchangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}

	req.Name = utils.SanitizeInput(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Exchange name is required",
			Code:    models.CodeInvalidInput,
		})
	}

	now := time.Now()
	exchange := models.Exchange{
		Name:       req.Name,
		MinDeposit: req.ParsedMinDeposit(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	collection := config.GetCollection(ec.DB, "exchanges")
	result, err := collection.InsertOne(ctx, exchange)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An exchange with this name already exists",
				Code:    models.CodeConflict,
			})
		}
		ec.logger.Printf("Failed to create exchange: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create exchange",
		})
	}
	exchange.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Exchange created successfully",
		Data:    exchange,
	})
}

// UpdateExchange replaces a platform's name and minimum deposit
func (ec *ExchangeController) UpdateExchange(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid exchange ID",
			Code:    models.CodeInvalidInput,
		})
	}

	var req models.ExchangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}

	req.Name = utils.SanitizeInput(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Exchange name is required",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(ec.DB, "exchanges")
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"name":       req.Name,
		"minDeposit": req.ParsedMinDeposit(),
		"updatedAt":  time.Now(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An exchange with this name already exists",
				Code:    models.CodeConflict,
			})
		}
		ec.logger.Printf("Failed to update exchange %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update exchange",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Exchange not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Exchange updated successfully",
	})
}

// DeleteExchange removes a platform. Existing requests that reference the
// name are left untouched; deposit submission revalidates against the
// current catalog.
func (ec *ExchangeController) DeleteExchange(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid exchange ID",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(ec.DB, "exchanges")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		ec.logger.Printf("Failed to delete exchange %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete exchange",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Exchange not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Exchange deleted successfully",
	})
}
