package domain

import "time"

// Audit actions and outcomes.
const (
	AuditActionSignIn = "signin"
	AuditActionSignUp = "signup"

	AuditOutcomeSuccess            = "success"
	AuditOutcomeInvalidCredentials = "invalid_credentials"
	AuditOutcomeConflict           = "conflict"
	AuditOutcomeLocked             = "locked"
)

// AuditEvent records the outcome of one authentication operation.
type AuditEvent struct {
	Username string    `json:"username"`
	Action   string    `json:"action"`
	Outcome  string    `json:"outcome"`
	At       time.Time `json:"at"`
}
