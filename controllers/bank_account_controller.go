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

// BankAccountController manages the deposit destination accounts shown to
// bettors on the deposit screen
type BankAccountController struct {
	DB     *mongo.Client
	logger *log.Logger
}

func NewBankAccountController(db *mongo.Client) *BankAccountController {
	return &BankAccountController{
		DB:     db,
		logger: log.New(os.Stdout, "[BANK] ", log.LstdFlags),
	}
}

func (bc *BankAccountController) GetBankAccounts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(bc.DB, "bankAccounts")
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		bc.logger.Printf("Failed to fetch bank accounts: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch bank accounts",
		})
	}
	defer cursor.Close(ctx)

	accounts := []models.BankAccount{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode bank accounts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bank accounts retrieved successfully",
		Data:    accounts,
	})
}

func (bc *BankAccountController) CreateBankAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.BankAccountRequest
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
			Message: "Bank name, account number and account title are required",
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

	now := time.Now()
	account := models.BankAccount{
		BankName:      utils.SanitizeInput(req.BankName),
		AccountNumber: req.AccountNumber,
		AccountTitle:  utils.SanitizeInput(req.AccountTitle),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	collection := config.GetCollection(bc.DB, "bankAccounts")
	result, err := collection.InsertOne(ctx, account)
	if err != nil {
		bc.logger.Printf("Failed to create bank account: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create bank account",
		})
	}
	account.ID = result.InsertedID.(primitive.ObjectID)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Bank account created successfully",
		Data:    account,
	})
}

// UpdateBankAccount applies a partial edit; only supplied fields change
func (bc *BankAccountController) UpdateBankAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid bank account ID",
			Code:    models.CodeInvalidInput,
		})
	}

	var req models.UpdateBankAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.BankName != "" {
		update["bankName"] = utils.SanitizeInput(req.BankName)
	}
	if req.AccountNumber != "" {
		if err := utils.ValidateAccountNumber(req.AccountNumber); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
				Code:    models.CodeInvalidInput,
			})
		}
		update["accountNumber"] = req.AccountNumber
	}
	if req.AccountTitle != "" {
		update["accountTitle"] = utils.SanitizeInput(req.AccountTitle)
	}

	collection := config.GetCollection(bc.DB, "bankAccounts")
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		bc.logger.Printf("Failed to update bank account %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update bank account",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Bank account not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bank account updated successfully",
	})
}

func (bc *BankAccountController) DeleteBankAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid bank account ID",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(bc.DB, "bankAccounts")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		bc.logger.Printf("Failed to delete bank account %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete bank account",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Bank account not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bank account deleted successfully",
	})
}
