// models/account_request.go
package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request lifecycle states shared by account, deposit and withdraw requests.
// Rejection of deposits/withdrawals is deletion, not a stored state.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusResolved = "resolved"
	StatusRejected = "rejected"
)

// Account credential states inside an approved request
const (
	AccountActive   = "active"
	AccountInactive = "inactive"
)

// AccountDetails is the credential sub-record an admin attaches at approval
// time. It is absent while the request is pending.
type AccountDetails struct {
	Username   string    `json:"username" bson:"username"`
	Password   string    `json:"password" bson:"password"`
	Link       string    `json:"link" bson:"link"`
	Status     string    `json:"status" bson:"status"`
	ApprovedAt time.Time `json:"approvedAt" bson:"approvedAt"`
}

// AccountRequest is a user's ask for a username on a given exchange,
// fulfilled by admin with real credentials.
type AccountRequest struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	UserFullName   string             `json:"userFullName" bson:"userFullName"`
	Platform       string             `json:"platform" bson:"platform"`
	Username       string             `json:"username" bson:"username"`
	Status         string             `json:"status" bson:"status"`
	AccountDetails *AccountDetails    `json:"accountDetails,omitempty" bson:"accountDetails,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type AccountRequestCreate struct {
	UserID   string `json:"userId"`
	Platform string `json:"platform" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// ApproveAccountRequest carries the four mandatory approval fields. There is
// no partial approval.
type ApproveAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Link     string `json:"link" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=active inactive"`
}

// UpdateAccountDetailsRequest is the admin's later edit of an approved
// request's embedded credentials.
type UpdateAccountDetailsRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Link     string `json:"link,omitempty"`
	Status   string `json:"status,omitempty"`
}

var (
	ErrNotPending         = errors.New("request is not pending")
	ErrNotApproved        = errors.New("request is not approved")
	ErrIncompleteApproval = errors.New("username, password, link and status are all required")
)

// Approve moves a pending request to approved, populating the embedded
// credential record atomically. All four fields are required; approving a
// non-pending request is refused.
func (r *AccountRequest) Approve(req ApproveAccountRequest, now time.Time) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	if req.Username == "" || req.Password == "" || req.Link == "" || req.Status == "" {
		return ErrIncompleteApproval
	}
	r.Status = StatusApproved
	r.AccountDetails = &AccountDetails{
		Username:   req.Username,
		Password:   req.Password,
		Link:       req.Link,
		Status:     req.Status,
		ApprovedAt: now,
	}
	r.UpdatedAt = now
	return nil
}

// ApplyDetailsPatch mutates the embedded credentials of an approved request.
// The request stays approved; empty fields are left unchanged.
func (r *AccountRequest) ApplyDetailsPatch(patch UpdateAccountDetailsRequest, now time.Time) error {
	if r.Status != StatusApproved || r.AccountDetails == nil {
		return ErrNotApproved
	}
	if patch.Username != "" {
		r.AccountDetails.Username = patch.Username
	}
	if patch.Password != "" {
		r.AccountDetails.Password = patch.Password
	}
	if patch.Link != "" {
		r.AccountDetails.Link = patch.Link
	}
	if patch.Status != "" {
		r.AccountDetails.Status = patch.Status
	}
	r.UpdatedAt = now
	return nil
}

// ResolveAccountUsername is the best-effort join deposits and withdrawals
// attach to their payload: the credential username of the caller's approved
// request on the platform, or a sentinel when no match exists. Submissions
// never fail on a missing match.
const NoAccountFound = "No Account Found"

func ResolveAccountUsername(requests []AccountRequest, userID primitive.ObjectID, platform string) string {
	for _, req := range requests {
		if req.UserID == userID && req.Platform == platform && req.Status == StatusApproved && req.AccountDetails != nil {
			return req.AccountDetails.Username
		}
	}
	return NoAccountFound
}
