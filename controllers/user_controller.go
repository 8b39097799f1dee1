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
	"github.com/mindexch/mindexch_backend/repositories"
	"github.com/mindexch/mindexch_backend/utils"
)

// UserController handles the admin's user management screens
type UserController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
	logger   *log.Logger
}

func NewUserController(db *mongo.Client, userRepo *repositories.UserRepository) *UserController {
	return &UserController{
		DB:       db,
		userRepo: userRepo,
		logger:   log.New(os.Stdout, "[USER] ", log.LstdFlags),
	}
}

// GetUsers returns all users, newest first, without password hashes
func (uc *UserController) GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(uc.DB, "users")
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetProjection(bson.M{"password": 0})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		uc.logger.Printf("Failed to fetch users: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch users",
		})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// UpdateUser applies the admin's partial edit (password reset, activation)
func (uc *UserController) UpdateUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
			Code:    models.CodeInvalidInput,
		})
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Password != "" {
		if err := utils.ValidatePassword(req.Password); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
				Code:    models.CodeInvalidInput,
			})
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to process password",
			})
		}
		update["password"] = hash
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}

	collection := config.GetCollection(uc.DB, "users")
	result, err := collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		uc.logger.Printf("Failed to update user %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated successfully",
	})
}

// ToggleUserStatus flips the activation flag. A deactivated user's next
// status poll logs them out client-side; the server additionally refuses
// their logins until reactivated.
func (uc *UserController) ToggleUserStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
			Code:    models.CodeInvalidInput,
		})
	}

	user, err := uc.userRepo.FindByID(ctx, objID.Hex())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
				Code:    models.CodeNotFound,
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch user",
		})
	}

	newStatus := !user.IsActive
	if err := uc.userRepo.SetActive(ctx, objID, newStatus); err != nil {
		uc.logger.Printf("Failed to toggle status for %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user status",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User status updated successfully",
		Data:    map[string]bool{"isActive": newStatus},
	})
}

// DeleteUser removes a user account. Their request history is left in
// place for the admin screens.
func (uc *UserController) DeleteUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
			Code:    models.CodeInvalidInput,
		})
	}

	collection := config.GetCollection(uc.DB, "users")
	result, err := collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		uc.logger.Printf("Failed to delete user %s: %v", objID.Hex(), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete user",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
			Code:    models.CodeNotFound,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted successfully",
	})
}

// GetUserStats feeds the admin dashboard's 30-second poll
func (uc *UserController) GetUserStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	users := config.GetCollection(uc.DB, "users")
	accountRequests := config.GetCollection(uc.DB, "accountRequests")

	total, err := users.CountDocuments(ctx, bson.M{"role": models.RoleBettor})
	if err != nil {
		uc.logger.Printf("Failed to count users: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute stats",
		})
	}
	active, err := users.CountDocuments(ctx, bson.M{"role": models.RoleBettor, "isActive": true})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute stats",
		})
	}
	pending, err := accountRequests.CountDocuments(ctx, bson.M{"status": models.StatusPending})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to compute stats",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Stats retrieved successfully",
		Data: models.UserStats{
			TotalUsers:    int(total),
			ActiveUsers:   int(active),
			InactiveUsers: int(total - active),
			PendingUsers:  int(pending),
		},
	})
}
