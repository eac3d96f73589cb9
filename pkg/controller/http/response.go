package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/errutil"
)

type riskResponse struct {
	Index          int              `json:"index"`
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Desc           string           `json:"desc"`
	Category       string           `json:"category"`
	Owner          string           `json:"owner"`
	Status         string           `json:"status"`
	Likelihood     int              `json:"likelihood"`
	Impact         int              `json:"impact"`
	InherentScore  int              `json:"inherentScore"`
	ResidualScore  int              `json:"residualScore"`
	Severity       string           `json:"severity"`
	MappedControls []string         `json:"mappedControls"`
	Assessments    []assessmentJSON `json:"assessments"`
	Treatments     []treatmentJSON  `json:"treatments"`
	ChangeLog      []changeLogJSON  `json:"changeLog"`
	TicketLink     string           `json:"ticketLink"`
	DateCreated    time.Time        `json:"dateCreated"`
	DateUpdated    time.Time        `json:"dateUpdated"`
}

type assessmentJSON struct {
	Date       time.Time `json:"date"`
	Likelihood int       `json:"likelihood"`
	Impact     int       `json:"impact"`
	Assessor   string    `json:"assessor"`
	Notes      string    `json:"notes"`
}

type treatmentJSON struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	DueDate     string           `json:"dueDate"`
	Completed   bool             `json:"completed"`
	Attachments []attachmentJSON `json:"attachments"`
}

type attachmentJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type changeLogJSON struct {
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
}

func toRiskResponse(index int, r *model.Risk) riskResponse {
	resp := riskResponse{
		Index:          index,
		ID:             r.ID.String(),
		Title:          r.Title,
		Desc:           r.Desc,
		Category:       r.Category.String(),
		Owner:          r.Owner,
		Status:         r.Status.String(),
		Likelihood:     r.Likelihood,
		Impact:         r.Impact,
		InherentScore:  r.InherentScore,
		ResidualScore:  r.ResidualScore,
		Severity:       model.SeverityOf(r.ResidualScore).String(),
		MappedControls: make([]string, 0, len(r.MappedControls)),
		Assessments:    make([]assessmentJSON, 0, len(r.Assessments)),
		Treatments:     make([]treatmentJSON, 0, len(r.Treatments)),
		ChangeLog:      make([]changeLogJSON, 0, len(r.ChangeLog)),
		TicketLink:     r.TicketLink,
		DateCreated:    r.DateCreated,
		DateUpdated:    r.DateUpdated,
	}

	for _, c := range r.MappedControls {
		resp.MappedControls = append(resp.MappedControls, c.String())
	}
	for _, a := range r.Assessments {
		resp.Assessments = append(resp.Assessments, assessmentJSON(a))
	}
	for _, t := range r.Treatments {
		tj := treatmentJSON{
			ID:          t.ID.String(),
			Description: t.Description,
			DueDate:     t.DueDate,
			Completed:   t.Completed,
			Attachments: make([]attachmentJSON, 0, len(t.Attachments)),
		}
		for _, a := range t.Attachments {
			tj.Attachments = append(tj.Attachments, attachmentJSON{ID: string(a.ID), Name: a.Name})
		}
		resp.Treatments = append(resp.Treatments, tj)
	}
	for _, e := range r.ChangeLog {
		resp.ChangeLog = append(resp.ChangeLog, changeLogJSON(e))
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(usecase.ErrValidation, "invalid request body", goerr.V("error", err.Error()))
	}
	return nil
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrRiskNotFound), errors.Is(err, usecase.ErrTreatmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrTicketAlreadyLinked), errors.Is(err, usecase.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrIntegration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}
