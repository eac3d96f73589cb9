package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Input errors
	ErrValidation = errors.New("validation failed")

	// Not found errors
	ErrRiskNotFound      = errors.New("risk not found")
	ErrTreatmentNotFound = errors.New("treatment not found")

	// External collaborator errors
	ErrIntegration = errors.New("integration failed")

	// State errors
	ErrTicketAlreadyLinked = errors.New("ticket is already linked")
	ErrSuperseded          = errors.New("superseded by a newer request")
)

// Context keys for error values
const (
	RiskIDKey      = "risk_id"
	TreatmentIDKey = "treatment_id"
	FieldKey       = "field"
	FormatKey      = "format"
)
