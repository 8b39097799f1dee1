// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleBettor = "bettor"
	RoleAdmin  = "admin"
)

// User model
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RegNumber      string             `json:"regNumber" bson:"regNumber"`
	FullName       string             `json:"fullName" bson:"fullName"`
	Username       string             `json:"username" bson:"username"`
	Whatsapp       string             `json:"whatsapp" bson:"whatsapp"`
	Password       string             `json:"password,omitempty" bson:"password"`
	Role           string             `json:"role" bson:"role"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	LastActivityAt time.Time          `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Response is the envelope returned by every endpoint. Code is only set on
// failed writes so legacy clients can keep matching Message text while new
// clients branch on the structured code.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// UserStatusResponse backs the user dashboard's activation poll
type UserStatusResponse struct {
	Exists   bool `json:"exists"`
	IsActive bool `json:"isActive"`
}

// UserStats aggregates the counters the admin dashboard polls every 30 seconds
type UserStats struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveUsers   int `json:"activeUsers"`
	InactiveUsers int `json:"inactiveUsers"`
	PendingUsers  int `json:"pendingUsers"`
}
