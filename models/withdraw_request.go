// models/withdraw_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinWithdrawAmount is the fixed withdrawal floor (PKR); withdrawals have no
// per-platform minimum.
const MinWithdrawAmount = 500

// WithdrawRequest is a bank-transfer payout request. Transfer details are
// entered fresh per request, never reused from the managed bank accounts.
type WithdrawRequest struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	UserFullName    string             `json:"userFullName" bson:"userFullName"`
	Platform        string             `json:"platform" bson:"platform"`
	Amount          float64            `json:"amount" bson:"amount"`
	Method          string             `json:"method" bson:"method"` // always "bank"
	BankName        string             `json:"bankName" bson:"bankName"`
	AccountNumber   string             `json:"accountNumber" bson:"accountNumber"`
	AccountTitle    string             `json:"accountTitle" bson:"accountTitle"`
	AccountUsername string             `json:"accountUsername" bson:"accountUsername"`
	Status          string             `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	ProcessedAt     *time.Time         `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
}

type WithdrawRequestCreate struct {
	UserID          string `json:"userId"`
	UserFullName    string `json:"userFullName"`
	Platform        string `json:"platform" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	BankName        string `json:"bankName" validate:"required"`
	AccountNumber   string `json:"accountNumber" validate:"required"`
	AccountTitle    string `json:"accountTitle" validate:"required"`
	AccountUsername string `json:"accountUsername"`
}
