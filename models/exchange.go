// models/exchange.go
package models

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMinDeposit applies when an exchange has no minimum configured (PKR)
const DefaultMinDeposit = 500

// Exchange is an admin-configured gaming platform users can request
// accounts on. Account requests reference it by name, not id, so renames
// and deletes can orphan existing requests; readers re-validate names
// against the current list instead of assuming referential integrity.
type Exchange struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	MinDeposit int                `json:"minDeposit" bson:"minDeposit"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ExchangeRequest accepts the legacy admin form payload, where minDeposit
// arrives as a free-text string.
type ExchangeRequest struct {
	Name       string `json:"name" validate:"required"`
	MinDeposit string `json:"minDeposit"`
}

// ParsedMinDeposit parses the form value, falling back to the platform
// default when blank or malformed.
func (r ExchangeRequest) ParsedMinDeposit() int {
	s := strings.TrimSpace(r.MinDeposit)
	if s == "" {
		return DefaultMinDeposit
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return DefaultMinDeposit
	}
	return n
}

// MinDepositFor resolves the deposit floor for a platform name against the
// current exchange list. The second return reports whether the platform
// still exists.
func MinDepositFor(exchanges []Exchange, platform string) (int, bool) {
	for _, ex := range exchanges {
		if ex.Name == platform {
			if ex.MinDeposit <= 0 {
				return DefaultMinDeposit, true
			}
			return ex.MinDeposit, true
		}
	}
	return DefaultMinDeposit, false
}
