package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func pendingRequest() AccountRequest {
	return AccountRequest{
		ID:           primitive.NewObjectID(),
		UserID:       primitive.NewObjectID(),
		UserFullName: "Test Bettor",
		Platform:     "Betfair",
		Username:     "wanted_name",
		Status:       StatusPending,
	}
}

func TestApprovePopulatesDetails(t *testing.T) {
	req := pendingRequest()
	now := time.Now()

	err := req.Approve(ApproveAccountRequest{
		Username: "bf_user01",
		Password: "secret123",
		Link:     "https://betfair.example.com",
		Status:   AccountActive,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, req.Status)
	require.NotNil(t, req.AccountDetails)
	assert.Equal(t, "bf_user01", req.AccountDetails.Username)
	assert.Equal(t, "secret123", req.AccountDetails.Password)
	assert.Equal(t, "https://betfair.example.com", req.AccountDetails.Link)
	assert.Equal(t, AccountActive, req.AccountDetails.Status)
	assert.Equal(t, now, req.AccountDetails.ApprovedAt)
}

func TestApproveRequiresAllFields(t *testing.T) {
	tests := []struct {
		name string
		body ApproveAccountRequest
	}{
		{"missing username", ApproveAccountRequest{Password: "p", Link: "l", Status: AccountActive}},
		{"missing password", ApproveAccountRequest{Username: "u", Link: "l", Status: AccountActive}},
		{"missing link", ApproveAccountRequest{Username: "u", Password: "p", Status: AccountActive}},
		{"missing status", ApproveAccountRequest{Username: "u", Password: "p", Link: "l"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pendingRequest()
			err := req.Approve(tt.body, time.Now())
			assert.ErrorIs(t, err, ErrIncompleteApproval)
			assert.Equal(t, StatusPending, req.Status)
			assert.Nil(t, req.AccountDetails)
		})
	}
}

func TestApproveRefusesNonPending(t *testing.T) {
	req := pendingRequest()
	body := ApproveAccountRequest{
		Username: "u", Password: "p", Link: "l", Status: AccountActive,
	}
	require.NoError(t, req.Approve(body, time.Now()))

	err := req.Approve(body, time.Now())
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestApplyDetailsPatch(t *testing.T) {
	req := pendingRequest()
	require.NoError(t, req.Approve(ApproveAccountRequest{
		Username: "old_user", Password: "old_pass", Link: "old_link", Status: AccountActive,
	}, time.Now()))

	err := req.ApplyDetailsPatch(UpdateAccountDetailsRequest{
		Password: "new_pass",
		Status:   AccountInactive,
	}, time.Now())
	require.NoError(t, err)

	// Unset fields stay; set fields change; the request stays approved
	assert.Equal(t, StatusApproved, req.Status)
	assert.Equal(t, "old_user", req.AccountDetails.Username)
	assert.Equal(t, "new_pass", req.AccountDetails.Password)
	assert.Equal(t, "old_link", req.AccountDetails.Link)
	assert.Equal(t, AccountInactive, req.AccountDetails.Status)
}

func TestApplyDetailsPatchRefusesPending(t *testing.T) {
	req := pendingRequest()
	err := req.ApplyDetailsPatch(UpdateAccountDetailsRequest{Password: "x"}, time.Now())
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestResolveAccountUsername(t *testing.T) {
	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	approved := pendingRequest()
	approved.UserID = userID
	approved.Platform = "Betfair"
	require.NoError(t, approved.Approve(ApproveAccountRequest{
		Username: "bf_user01", Password: "p", Link: "l", Status: AccountActive,
	}, time.Now()))

	stillPending := pendingRequest()
	stillPending.UserID = userID
	stillPending.Platform = "Bet365"

	someoneElses := pendingRequest()
	someoneElses.UserID = otherID
	someoneElses.Platform = "Betfair"
	require.NoError(t, someoneElses.Approve(ApproveAccountRequest{
		Username: "other_user", Password: "p", Link: "l", Status: AccountActive,
	}, time.Now()))

	requests := []AccountRequest{approved, stillPending, someoneElses}

	assert.Equal(t, "bf_user01", ResolveAccountUsername(requests, userID, "Betfair"))

	// A pending request never resolves
	assert.Equal(t, NoAccountFound, ResolveAccountUsername(requests, userID, "Bet365"))

	// Another user's approval never leaks
	assert.Equal(t, NoAccountFound, ResolveAccountUsername(requests, userID, "Unknown"))
	assert.Equal(t, "other_user", ResolveAccountUsername(requests, otherID, "Betfair"))
}
