// models/auth.go
package models

// Structured error codes carried next to legacy message text so clients can
// stop sniffing substrings ("username", "whatsapp") out of error messages.
const (
	CodeUsernameTaken   = "USERNAME_TAKEN"
	CodeWhatsappTaken   = "WHATSAPP_TAKEN"
	CodeRegNumberTaken  = "REG_NUMBER_TAKEN"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeSessionExpired  = "SESSION_EXPIRED"
	CodeUserInactive    = "USER_INACTIVE"
	CodeBelowMinimum    = "BELOW_MINIMUM"
	CodeMissingProof    = "MISSING_PROOF"
	CodeNoApprovedAcct  = "NO_APPROVED_ACCOUNT"
	CodeUnknownPlatform = "UNKNOWN_PLATFORM"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
)

type RegisterRequest struct {
	RegNumber string `json:"regNumber"`
	FullName  string `json:"fullName" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Whatsapp  string `json:"whatsapp" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
	// Only honored when the caller is an authenticated admin (the admin
	// "Add User" screen reuses the register endpoint).
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type LoginRequest struct {
	// Username accepts either the chosen username or the WhatsApp number
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateUserRequest is the admin's partial edit of a user (password reset
// and activation flag)
type UpdateUserRequest struct {
	Password string `json:"password,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}
