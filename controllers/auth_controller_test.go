package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindexch/mindexch_backend/models"
)

func duplicateKeyError(index string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: mindexch.users index: " + index + "_1 dup key",
	}}}
}

func TestDuplicateUserResponse(t *testing.T) {
	tests := []struct {
		name        string
		index       string
		wantCode    string
		wantMessage string
	}{
		{"username collision", "username", models.CodeUsernameTaken, "username already exists"},
		{"whatsapp collision", "whatsapp", models.CodeWhatsappTaken, "whatsapp number already registered"},
		{"reg number collision", "regNumber", models.CodeRegNumberTaken, "registration number already taken"},
		{"unknown index", "something", models.CodeConflict, "duplicate value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := duplicateUserResponse(duplicateKeyError(tt.index))
			assert.Equal(t, http.StatusConflict, resp.Status)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestShouldRetryRegNumber(t *testing.T) {
	regCollision := duplicateKeyError("regNumber")

	// Collisions on a number the server generated itself are retried
	assert.True(t, shouldRetryRegNumber(regCollision, true, 0))
	assert.True(t, shouldRetryRegNumber(regCollision, true, 1))

	// The attempt budget is finite
	assert.False(t, shouldRetryRegNumber(regCollision, true, maxRegNumberAttempts-1))

	// A client-supplied number is the caller's conflict, not ours
	assert.False(t, shouldRetryRegNumber(regCollision, false, 0))

	// Other duplicates and plain failures never retry
	assert.False(t, shouldRetryRegNumber(duplicateKeyError("username"), true, 0))
	assert.False(t, shouldRetryRegNumber(errors.New("connection reset"), true, 0))
}
