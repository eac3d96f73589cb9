package types

import "github.com/google/uuid"

// RiskID is a UUID-based identifier for a risk
type RiskID string

// NewRiskID generates a new UUID v4 RiskID
func NewRiskID() RiskID {
	return RiskID(uuid.New().String())
}

// String returns the string representation of RiskID
func (id RiskID) String() string {
	return string(id)
}

// TreatmentID is a UUID-based identifier for a treatment
type TreatmentID string

// NewTreatmentID generates a new UUID v4 TreatmentID
func NewTreatmentID() TreatmentID {
	return TreatmentID(uuid.New().String())
}

// String returns the string representation of TreatmentID
func (id TreatmentID) String() string {
	return string(id)
}

// AttachmentID is a UUID-based identifier for an attachment
type AttachmentID string

// NewAttachmentID generates a new UUID v4 AttachmentID
func NewAttachmentID() AttachmentID {
	return AttachmentID(uuid.New().String())
}
