package model

import (
	"time"

	"github.com/secmon-lab/riskreg/pkg/domain/types"
)

// Risk is a single entry of the risk register
type Risk struct {
	ID       types.RiskID
	Title    string
	Desc     string
	Category types.Category
	Owner    string
	Status   types.RiskStatus

	Likelihood    int
	Impact        int
	InherentScore int // fixed at creation
	ResidualScore int // product of the latest assessment, InherentScore until one exists

	MappedControls []types.Framework
	Assessments    []Assessment
	Treatments     []Treatment
	ChangeLog      []ChangeLogEntry
	TicketLink     string

	DateCreated time.Time
	DateUpdated time.Time
}

// Assessment is a re-scoring of a risk
type Assessment struct {
	Date       time.Time
	Likelihood int
	Impact     int
	Assessor   string
	Notes      string
}

// Treatment is a remediation action tracked to completion
type Treatment struct {
	ID          types.TreatmentID
	Description string
	DueDate     string // free-form as entered; usually YYYY-MM-DD
	Completed   bool
	Attachments []Attachment
}

// Attachment references content held by the blob store
type Attachment struct {
	ID   types.AttachmentID
	Name string
	Ref  string
}

// ChangeLogEntry is an audit record of a mutation
type ChangeLogEntry struct {
	Timestamp time.Time
	Actor     string
	Action    string
	Detail    string
}

// LogEntry is the caller-supplied part of a ChangeLogEntry; the store stamps the time
type LogEntry struct {
	Actor  string
	Action string
	Detail string
}

// Audit actions written by the register
const (
	ActionCreateRisk      = "Created Risk"
	ActionDeleteRisk      = "Deleted Risk"
	ActionUpdateMeta      = "Update Meta"
	ActionAddAssessment   = "Add Assessment"
	ActionAddTreatment    = "Add Treatment"
	ActionToggleTreatment = "Toggle Treatment"
	ActionAddAttachment   = "Add Attachment"
	ActionMapControls     = "Map Controls"
	ActionCreateTicket    = "Create Ticket"
)

// Actors recorded when the caller gives none
const (
	DefaultActor = "System"
	UnknownActor = "Unknown" // assessments without an assessor
)

// HasControls reports whether at least one framework is mapped
func (r *Risk) HasControls() bool {
	return len(r.MappedControls) > 0
}

// FindTreatment returns the index of the treatment with the given ID, or -1
func (r *Risk) FindTreatment(id types.TreatmentID) int {
	for i := range r.Treatments {
		if r.Treatments[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the risk
func (r *Risk) Clone() *Risk {
	copied := *r

	copied.MappedControls = append([]types.Framework(nil), r.MappedControls...)
	copied.Assessments = append([]Assessment(nil), r.Assessments...)
	copied.ChangeLog = append([]ChangeLogEntry(nil), r.ChangeLog...)

	copied.Treatments = make([]Treatment, len(r.Treatments))
	for i, t := range r.Treatments {
		t.Attachments = append([]Attachment(nil), t.Attachments...)
		copied.Treatments[i] = t
	}

	return &copied
}
