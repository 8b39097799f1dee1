// models/deposit_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DepositRequest carries the proof-of-payment screenshot inline as a
// compressed JPEG data URL; there is no separate binary upload endpoint.
type DepositRequest struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	UserFullName    string             `json:"userFullName" bson:"userFullName"`
	Platform        string             `json:"platform" bson:"platform"`
	Amount          float64            `json:"amount" bson:"amount"`
	Method          string             `json:"method" bson:"method"` // bankAccounts id
	TransactionID   string             `json:"transactionId" bson:"transactionId"`
	AccountUsername string             `json:"accountUsername" bson:"accountUsername"`
	Screenshot      string             `json:"screenshot" bson:"screenshot"`
	ScreenshotData  string             `json:"screenshotData" bson:"screenshotData"`
	Status          string             `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	ProcessedAt     *time.Time         `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
}

// DepositRequestCreate mirrors the legacy submit payload. Amount arrives as
// a string from the form.
type DepositRequestCreate struct {
	UserID          string `json:"userId"`
	UserFullName    string `json:"userFullName"`
	Platform        string `json:"platform" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	Method          string `json:"method" validate:"required"`
	TransactionID   string `json:"transactionId" validate:"required"`
	AccountUsername string `json:"accountUsername"`
	Screenshot      string `json:"screenshot"`
	ScreenshotData  string `json:"screenshotData"`
}

// StatusUpdateRequest is the admin's PUT body for deposits and withdrawals.
// "approved" flips the status; "rejected" deletes the request outright so no
// rejected entries survive in history.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
