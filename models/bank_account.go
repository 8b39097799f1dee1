// models/bank_account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BankAccount is an admin-managed payment-receiving account. Deposit
// requests reference it by id.
type BankAccount struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	BankName      string             `json:"bankName" bson:"bankName"`
	AccountNumber string             `json:"accountNumber" bson:"accountNumber"`
	AccountTitle  string             `json:"accountTitle" bson:"accountTitle"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type BankAccountRequest struct {
	BankName      string `json:"bankName" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required"`
	AccountTitle  string `json:"accountTitle" validate:"required"`
}

// UpdateBankAccountRequest is the admin's partial edit
type UpdateBankAccountRequest struct {
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountTitle  string `json:"accountTitle,omitempty"`
}
