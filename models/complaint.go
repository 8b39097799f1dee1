// models/complaint.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint is a free-text grievance tied to a user and one of their account
// usernames. Complaints are never auto-deleted; only an explicit admin
// delete removes them.
type Complaint struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	UserFullName    string             `json:"userFullName" bson:"userFullName"`
	AccountUsername string             `json:"accountUsername" bson:"accountUsername"`
	Message         string             `json:"message" bson:"message"`
	Status          string             `json:"status" bson:"status"` // "pending" or "resolved"
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ComplaintCreate struct {
	UserID          string `json:"userId"`
	UserFullName    string `json:"userFullName"`
	AccountUsername string `json:"accountUsername" validate:"required"`
	Message         string `json:"message" validate:"required"`
}

type ComplaintStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending resolved"`
}
