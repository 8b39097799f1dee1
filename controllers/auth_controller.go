package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindexch/mindexch_backend/config"
	"github.com/mindexch/mindexch_backend/middleware"
	"github.com/mindexch/mindexch_backend/models"
	"github.com/mindexch/mindexch_backend/repositories"
	"github.com/mindexch/mindexch_backend/utils"
)

// AuthController contains authentication logic
type AuthController struct {
	DB            *mongo.Client
	userRepo      *repositories.UserRepository
	logger        *log.Logger
	loginAttempts map[string]struct {
		count       int
		lastAttempt time.Time
	}
	loginAttemptsMu sync.RWMutex
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client) *AuthController {
	ac := &AuthController{
		DB:       db,
		userRepo: repositories.NewUserRepository(db),
		logger:   log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
		loginAttempts: make(map[string]struct {
			count       int
			lastAttempt time.Time
		}),
	}

	go ac.startLoginAttemptCleanupRoutine()

	return ac
}

// Register creates a bettor account. The unique indexes on username,
// whatsapp and regNumber are the sole arbiter of conflicts; no pre-check
// is made before the insert.
func (ac *AuthController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}

	req.FullName = utils.SanitizeInput(req.FullName)
	req.Username = utils.SanitizeInput(req.Username)
	req.Whatsapp = strings.TrimSpace(req.Whatsapp)

	if req.FullName == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Full name and username are required",
			Code:    models.CodeInvalidInput,
		})
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Code:    models.CodeInvalidInput,
		})
	}
	if err := utils.ValidateWhatsapp(req.Whatsapp); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Code:    models.CodeInvalidInput,
		})
	}

	// The client generates the registration number; generate one here only
	// when it is absent
	serverGeneratedReg := false
	if req.RegNumber == "" {
		req.RegNumber = utils.GenerateRegNumber()
		serverGeneratedReg = true
	} else if err := utils.ValidateRegNumber(req.RegNumber); err != nil {
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

	// The admin "Add User" screen reuses this endpoint; role and isActive
	// are honored only for an authenticated admin caller
	role := models.RoleBettor
	isActive := true
	if bearerRole(c) == models.RoleAdmin {
		if req.Role == models.RoleAdmin || req.Role == models.RoleBettor {
			role = req.Role
		}
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
	}

	now := time.Now()
	user := models.User{
		RegNumber:      req.RegNumber,
		FullName:       req.FullName,
		Username:       req.Username,
		Whatsapp:       req.Whatsapp,
		Password:       hash,
		Role:           role,
		IsActive:       isActive,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	collection := config.GetCollection(ac.DB, "users")

	// A collision on a server-generated registration number is our own bad
	// luck, not the caller's conflict; retry with a fresh number
	var result *mongo.InsertOneResult
	for attempt := 0; ; attempt++ {
		result, err = collection.InsertOne(ctx, user)
		if err == nil {
			break
		}
		if shouldRetryRegNumber(err, serverGeneratedReg, attempt) {
			user.RegNumber = utils.GenerateRegNumber()
			continue
		}
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, duplicateUserResponse(err))
		}
		ac.logger.Printf("Failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := ac.openSession(ctx, &user)
	if err != nil {
		ac.logger.Printf("Failed to open session after registration: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data:    models.AuthData{Token: token, User: user},
	})
}

// Login authenticates a user by username or WhatsApp number. The admin is
// an ordinary database-verified account; no credential ever lives in client
// code.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Code:    models.CodeInvalidInput,
		})
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Username and password are required",
			Code:    models.CodeInvalidInput,
		})
	}

	ac.loginAttemptsMu.RLock()
	attempts, exists := ac.loginAttempts[identifier]
	ac.loginAttemptsMu.RUnlock()

	if exists && attempts.count >= 5 && time.Since(attempts.lastAttempt) < 30*time.Minute {
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Status:  http.StatusTooManyRequests,
			Message: "Too many failed login attempts. Please try again later.",
		})
	}

	user, err := ac.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			ac.recordFailedAttempt(identifier)
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid credentials",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find user",
		})
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		ac.recordFailedAttempt(identifier)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Your account has been deactivated. Please contact admin.",
			Code:    models.CodeUserInactive,
		})
	}

	ac.loginAttemptsMu.Lock()
	delete(ac.loginAttempts, identifier)
	ac.loginAttemptsMu.Unlock()

	token, err := ac.openSession(ctx, user)
	if err != nil {
		ac.logger.Printf("Failed to open session: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	// Record the login as activity
	go func() {
		bgCtx, bgCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer bgCancel()
		collection := config.GetCollection(ac.DB, "users")
		now := time.Now()
		_, err := collection.UpdateOne(bgCtx, bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"lastActivityAt": now, "updatedAt": now}})
		if err != nil {
			ac.logger.Printf("Failed to update last activity: %v", err)
		}
	}()

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    models.AuthData{Token: token, User: *user},
	})
}

// Logout blacklists the current token and drops the server-side session
func (ac *AuthController) Logout(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "No active session",
		})
	}

	claims := token.Claims.(*middleware.JwtCustomClaims)

	expiry := time.Unix(claims.ExpiresAt, 0)
	if claims.ExpiresAt == 0 {
		expiry = time.Now().Add(24 * time.Hour)
	}
	middleware.BlacklistToken(token.Raw, expiry)

	if redisClient := config.GetRedisClient(); redisClient != nil && claims.SessionID != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := utils.DeleteSession(ctx, redisClient, claims.SessionID); err != nil {
			ac.logger.Printf("Failed to delete session: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out successfully",
	})
}

// UserStatus answers the dashboard's activation poll with the server truth.
// Deactivated or deleted users are expected to be logged out by the client.
func (ac *AuthController) UserStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, active, err := ac.userRepo.IsActive(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check user status",
		})
	}

	return c.JSON(http.StatusOK, models.UserStatusResponse{
		Exists:   exists,
		IsActive: active,
	})
}

// openSession creates the idle-tracked session record and a JWT bound to it
func (ac *AuthController) openSession(ctx context.Context, user *models.User) (string, error) {
	sessionID := ""
	if redisClient := config.GetRedisClient(); redisClient != nil {
		var err error
		sessionID, err = utils.CreateSession(ctx, redisClient, utils.Session{
			UserID:     user.ID.Hex(),
			Username:   user.Username,
			Role:       user.Role,
			LoggedInAt: time.Now(),
		})
		if err != nil {
			ac.logger.Printf("Failed to create session record: %v", err)
			sessionID = ""
		}
	}

	return middleware.GenerateJWT(user.ID.Hex(), user.Username, user.Role, sessionID)
}

func (ac *AuthController) recordFailedAttempt(identifier string) {
	ac.loginAttemptsMu.Lock()
	defer ac.loginAttemptsMu.Unlock()

	attempts := ac.loginAttempts[identifier]
	ac.loginAttempts[identifier] = struct {
		count       int
		lastAttempt time.Time
	}{count: attempts.count + 1, lastAttempt: time.Now()}
}

func (ac *AuthController) startLoginAttemptCleanupRoutine() {
	for {
		time.Sleep(1 * time.Hour)
		cutoff := time.Now().Add(-30 * time.Minute)
		ac.loginAttemptsMu.Lock()
		for identifier, attempts := range ac.loginAttempts {
			if attempts.lastAttempt.Before(cutoff) {
				delete(ac.loginAttempts, identifier)
			}
		}
		ac.loginAttemptsMu.Unlock()
	}
}

// bearerRole extracts the role from an Authorization header on routes that
// sit outside the JWT middleware. Returns "" for missing or invalid tokens.
func bearerRole(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	claims := &middleware.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(middleware.GetJWTSecret()), nil
		})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Role
}

// maxRegNumberAttempts bounds the fresh-number retries on a registration
// number collision
const maxRegNumberAttempts = 3

// shouldRetryRegNumber reports whether a failed user insert should be
// retried with a fresh registration number: only for collisions on a
// number the server generated itself, and only within the attempt budget.
func shouldRetryRegNumber(err error, serverGenerated bool, attempt int) bool {
	if !serverGenerated || attempt >= maxRegNumberAttempts-1 {
		return false
	}
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), "regNumber")
}

// duplicateUserResponse maps a duplicate-key error to the conflict the
// client expects. Message substrings ("username", "whatsapp") are part of
// the legacy contract; Code is the structured replacement.
func duplicateUserResponse(err error) models.Response {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "username"):
		return models.Response{
			Status:  http.StatusConflict,
			Message: "username already exists",
			Code:    models.CodeUsernameTaken,
		}
	case strings.Contains(msg, "whatsapp"):
		return models.Response{
			Status:  http.StatusConflict,
			Message: "whatsapp number already registered",
			Code:    models.CodeWhatsappTaken,
		}
	case strings.Contains(msg, "regNumber"):
		return models.Response{
			Status:  http.StatusConflict,
			Message: "registration number already taken",
			Code:    models.CodeRegNumberTaken,
		}
	default:
		return models.Response{
			Status:  http.StatusConflict,
			Message: "duplicate value",
			Code:    models.CodeConflict,
		}
	}
}

// SeedAdmin ensures the database-verified admin account exists, replacing
// the credential pair the legacy client compared locally. Credentials come
// from ADMIN_USERNAME/ADMIN_PASSWORD.
func SeedAdmin(db *mongo.Client) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Println("Warning: ADMIN_USERNAME/ADMIN_PASSWORD not set; no admin account seeded")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(db, "users")

	count, err := collection.CountDocuments(ctx, bson.M{"username": username, "role": models.RoleAdmin})
	if err != nil {
		log.Printf("Failed to check for admin account: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	now := time.Now()
	admin := models.User{
		RegNumber:      utils.GenerateRegNumber(),
		FullName:       "Administrator",
		Username:       username,
		Whatsapp:       "03000000000",
		Password:       hash,
		Role:           models.RoleAdmin,
		IsActive:       true,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := collection.InsertOne(ctx, admin); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			log.Printf("Failed to seed admin account: %v", err)
		}
		return
	}
	log.Println("Seeded admin account")
}
