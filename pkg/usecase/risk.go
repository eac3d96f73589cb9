package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/repository/memory"
	"github.com/secmon-lab/riskreg/pkg/utils/errutil"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
	"golang.org/x/sync/singleflight"
)

type RiskUseCase struct {
	repo          interfaces.Repository
	ticketService interfaces.TicketService
	blobStore     interfaces.BlobStore
	clock         func() time.Time
	ticketGroup   singleflight.Group
}

func NewRiskUseCase(repo interfaces.Repository, ticketService interfaces.TicketService, blobStore interfaces.BlobStore, clock func() time.Time) *RiskUseCase {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &RiskUseCase{
		repo:          repo,
		ticketService: ticketService,
		blobStore:     blobStore,
		clock:         clock,
	}
}

// buildFunc derives a patch and an optional log entry from the current state of a risk
type buildFunc func(current *model.Risk) (model.RiskPatch, *model.LogEntry, error)

func (uc *RiskUseCase) CreateRisk(ctx context.Context, input CreateRiskInput) (*model.Risk, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	controls, err := types.NormalizeFrameworks(input.MappedControls)
	if err != nil {
		return nil, goerr.Wrap(ErrValidation, err.Error())
	}

	status := input.Status
	if status == "" {
		status = types.RiskStatusOpen
	}

	actor := input.Owner
	if actor == "" {
		actor = model.DefaultActor
	}

	now := uc.clock()
	score := model.ComputeScore(input.Likelihood, input.Impact)
	risk := &model.Risk{
		ID:             types.NewRiskID(),
		Title:          input.Title,
		Desc:           input.Desc,
		Category:       input.Category,
		Owner:          input.Owner,
		Status:         status,
		Likelihood:     input.Likelihood,
		Impact:         input.Impact,
		InherentScore:  score,
		ResidualScore:  score,
		MappedControls: controls,
		ChangeLog: []model.ChangeLogEntry{
			{
				Timestamp: now,
				Actor:     actor,
				Action:    model.ActionCreateRisk,
				Detail:    fmt.Sprintf(`Title="%s", Score=%d`, input.Title, score),
			},
		},
		DateCreated: now,
		DateUpdated: now,
	}

	created, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}

	logging.From(ctx).Info("risk created",
		"risk_id", created.ID,
		"actor", actor,
		"score", score,
	)
	return created, nil
}

// Restore stores a complete risk record, e.g. from a seed file. The record
// must satisfy every register invariant.
func (uc *RiskUseCase) Restore(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	if violations := risk.Violations(); len(violations) > 0 {
		return nil, goerr.Wrap(ErrValidation, strings.Join(violations, "; "),
			goerr.V("title", risk.Title))
	}

	restored, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to restore risk", goerr.V(RiskIDKey, risk.ID))
	}
	return restored, nil
}

func (uc *RiskUseCase) GetRisk(ctx context.Context, id types.RiskID) (*model.Risk, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err, id)
	}
	return risk, nil
}

// ListRisks returns the risks matching filter in creation order
func (uc *RiskUseCase) ListRisks(ctx context.Context, filter aggregate.ListFilter) ([]*model.Risk, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	return aggregate.Filter(risks, filter), nil
}

// DeleteRisk removes a risk and returns the removed record with a final
// deletion entry appended to its change log.
func (uc *RiskUseCase) DeleteRisk(ctx context.Context, id types.RiskID, actor string) (*model.Risk, error) {
	removed, err := uc.repo.Risk().Delete(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err, id)
	}

	if actor == "" {
		actor = model.DefaultActor
	}
	removed.ChangeLog = append(removed.ChangeLog, model.ChangeLogEntry{
		Timestamp: uc.clock(),
		Actor:     actor,
		Action:    model.ActionDeleteRisk,
		Detail:    fmt.Sprintf(`Title="%s"`, removed.Title),
	})

	logging.From(ctx).Info("risk deleted",
		"risk_id", id,
		"actor", actor,
		"title", removed.Title,
		"change_log_entries", len(removed.ChangeLog),
	)
	return removed, nil
}

// UpdateRisk merges patch into the risk, bumps DateUpdated and appends entry
// when given. Nothing is stored if validation fails.
func (uc *RiskUseCase) UpdateRisk(ctx context.Context, id types.RiskID, patch model.RiskPatch, entry *model.LogEntry) (*model.Risk, error) {
	return uc.update(ctx, id, func(*model.Risk) (model.RiskPatch, *model.LogEntry, error) {
		return patch, entry, nil
	})
}

func (uc *RiskUseCase) update(ctx context.Context, id types.RiskID, build buildFunc) (*model.Risk, error) {
	var logged *model.ChangeLogEntry

	updated, err := uc.repo.Risk().Mutate(ctx, id, func(r *model.Risk) error {
		patch, entry, err := build(r)
		if err != nil {
			return err
		}
		if err := patch.Validate(); err != nil {
			return goerr.Wrap(ErrValidation, err.Error(), goerr.V(RiskIDKey, id))
		}
		patch.Apply(r)

		now := uc.clock()
		if now.Before(r.DateUpdated) {
			now = r.DateUpdated
		}
		r.DateUpdated = now

		if entry != nil {
			actor := entry.Actor
			if actor == "" {
				actor = model.DefaultActor
			}
			r.ChangeLog = append(r.ChangeLog, model.ChangeLogEntry{
				Timestamp: now,
				Actor:     actor,
				Action:    entry.Action,
				Detail:    entry.Detail,
			})
			last := r.ChangeLog[len(r.ChangeLog)-1]
			logged = &last
		}

		if violations := r.Violations(); len(violations) > 0 {
			return goerr.Wrap(ErrValidation, strings.Join(violations, "; "), goerr.V(RiskIDKey, id))
		}
		return nil
	})
	if err != nil {
		return nil, wrapRepoError(err, id)
	}

	if logged != nil {
		logging.From(ctx).Info("risk updated",
			"risk_id", id,
			"actor", logged.Actor,
			"action", logged.Action,
			"detail", logged.Detail,
		)
	}
	return updated, nil
}

// UpdateMeta changes owner and/or status
func (uc *RiskUseCase) UpdateMeta(ctx context.Context, id types.RiskID, actor string, owner *string, status *types.RiskStatus) (*model.Risk, error) {
	if owner == nil && status == nil {
		return nil, goerr.Wrap(ErrValidation, "owner or status is required", goerr.V(RiskIDKey, id))
	}

	return uc.update(ctx, id, func(*model.Risk) (model.RiskPatch, *model.LogEntry, error) {
		var parts []string
		if owner != nil {
			parts = append(parts, fmt.Sprintf(`Owner→"%s"`, *owner))
		}
		if status != nil {
			parts = append(parts, fmt.Sprintf(`Status→"%s"`, *status))
		}

		return model.RiskPatch{Owner: owner, Status: status}, &model.LogEntry{
			Actor:  actor,
			Action: model.ActionUpdateMeta,
			Detail: strings.Join(parts, ", "),
		}, nil
	})
}

// AddAssessment appends an assessment and makes its score the residual score
func (uc *RiskUseCase) AddAssessment(ctx context.Context, id types.RiskID, input AssessmentInput) (*model.Risk, error) {
	if err := validateInput(input); err != nil {
		return nil, goerr.Wrap(err, "invalid assessment", goerr.V(RiskIDKey, id))
	}

	assessment := model.Assessment{
		Date:       input.Date,
		Likelihood: input.Likelihood,
		Impact:     input.Impact,
		Assessor:   input.Assessor,
		Notes:      input.Notes,
	}
	if assessment.Date.IsZero() {
		assessment.Date = uc.clock()
	}

	actor := input.Assessor
	if actor == "" {
		actor = model.UnknownActor
	}

	return uc.update(ctx, id, func(current *model.Risk) (model.RiskPatch, *model.LogEntry, error) {
		assessments := append(append([]model.Assessment(nil), current.Assessments...), assessment)
		residual := model.ComputeScore(assessment.Likelihood, assessment.Impact)

		return model.RiskPatch{Assessments: &assessments, ResidualScore: &residual}, &model.LogEntry{
			Actor:  actor,
			Action: model.ActionAddAssessment,
			Detail: fmt.Sprintf(`L=%d, I=%d, Notes="%s"`, assessment.Likelihood, assessment.Impact, assessment.Notes),
		}, nil
	})
}

// AddTreatment appends an open treatment with a generated ID
func (uc *RiskUseCase) AddTreatment(ctx context.Context, id types.RiskID, actor string, input TreatmentInput) (*model.Risk, error) {
	if err := validateInput(input); err != nil {
		return nil, goerr.Wrap(err, "invalid treatment", goerr.V(RiskIDKey, id))
	}

	treatment := model.Treatment{
		ID:          types.NewTreatmentID(),
		Description: input.Description,
		DueDate:     input.DueDate,
	}

	return uc.update(ctx, id, func(current *model.Risk) (model.RiskPatch, *model.LogEntry, error) {
		treatments := append(append([]model.Treatment(nil), current.Treatments...), treatment)

		return model.RiskPatch{Treatments: &treatments}, &model.LogEntry{
			Actor:  actor,
			Action: model.ActionAddTreatment,
			Detail: fmt.Sprintf(`"%s" due %s`, treatment.Description, treatment.DueDate),
		}, nil
	})
}

// ToggleTreatment flips the completion flag of a treatment
func (uc *RiskUseCase) ToggleTreatment(ctx context.Context, id types.RiskID, actor string, treatmentID types.TreatmentID) (*model.Risk, error) {
	return uc.update(ctx, id, func(current *model.Risk) (model.RiskPatch, *model.LogEntry, error) {
		i := current.FindTreatment(treatmentID)
		if i < 0 {
			return model.RiskPatch{}, nil, goerr.Wrap(ErrTreatmentNotFound, "treatment not found",
				goerr.V(RiskIDKey, id), goerr.V(TreatmentIDKey, treatmentID))
		}

		treatments := append([]model.Treatment(nil), current.Treatments...)
		treatments[i].Completed = !treatments[i].Completed

		return model.RiskPatch{Treatments: &treatments}, &model.LogEntry{
			Actor:  actor,
			Action: model.ActionToggleTreatment,
			Detail: fmt.Sprintf("Treatment %s → %t", treatmentID, treatments[i].Completed),
		}, nil
	})
}

// AddAttachment appends an attachment reference to a treatment
func (uc *RiskUseCase) AddAttachment(ctx context.Context, id types.RiskID, actor string, treatmentID types.TreatmentID, attachment model.Attachment) (*model.Risk, error) {
	if attachment.Name == "" || attachment.Ref == "" {
		return nil, goerr.Wrap(ErrValidation, "attachment name and reference are required",
			goerr.V(RiskIDKey, id), goerr.V(TreatmentIDKey, treatmentID))
	}
	if attachment.ID == "" {
		attachment.ID = types.NewAttachmentID()
	}

	return uc.update(ctx, id, func(current *model.Risk) (model.RiskPatch, *model.LogEntry, error) {
		i := current.FindTreatment(treatmentID)
		if i < 0 {
			return model.RiskPatch{}, nil, goerr.Wrap(ErrTreatmentNotFound, "treatment not found",
				goerr.V(RiskIDKey, id), goerr.V(TreatmentIDKey, treatmentID))
		}

		treatments := append([]model.Treatment(nil), current.Treatments...)
		treatments[i].Attachments = append(append([]model.Attachment(nil), treatments[i].Attachments...), attachment)

		return model.RiskPatch{Treatments: &treatments}, &model.LogEntry{
			Actor:  actor,
			Action: model.ActionAddAttachment,
			Detail: fmt.Sprintf(`File "%s" to treatment %s`, attachment.Name, treatmentID),
		}, nil
	})
}

// UploadAttachment stores body in the blob store and attaches the reference
// to the treatment. The risk and treatment are checked before upload.
func (uc *RiskUseCase) UploadAttachment(ctx context.Context, id types.RiskID, actor string, treatmentID types.TreatmentID, name, contentType string, body io.Reader) (*model.Risk, error) {
	if uc.blobStore == nil {
		return nil, goerr.Wrap(ErrIntegration, "attachment storage is not configured")
	}
	if name == "" {
		return nil, goerr.Wrap(ErrValidation, "file name is required", goerr.V(RiskIDKey, id))
	}

	risk, err := uc.GetRisk(ctx, id)
	if err != nil {
		return nil, err
	}
	if risk.FindTreatment(treatmentID) < 0 {
		return nil, goerr.Wrap(ErrTreatmentNotFound, "treatment not found",
			goerr.V(RiskIDKey, id), goerr.V(TreatmentIDKey, treatmentID))
	}

	ref, err := uc.blobStore.Put(ctx, name, contentType, body)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to store attachment")
		return nil, goerr.Wrap(ErrIntegration, "failed to store attachment",
			goerr.V(RiskIDKey, id), goerr.V("name", name))
	}

	return uc.AddAttachment(ctx, id, actor, treatmentID, model.Attachment{Name: name, Ref: ref})
}

// OpenAttachment returns the content of a stored attachment
func (uc *RiskUseCase) OpenAttachment(ctx context.Context, ref string) (io.ReadCloser, error) {
	if uc.blobStore == nil {
		return nil, goerr.Wrap(ErrIntegration, "attachment storage is not configured")
	}
	rc, err := uc.blobStore.Get(ctx, ref)
	if err != nil {
		return nil, goerr.Wrap(ErrIntegration, "failed to read attachment", goerr.V("ref", ref))
	}
	return rc, nil
}

// SetMappedControls replaces the mapped frameworks of a risk
func (uc *RiskUseCase) SetMappedControls(ctx context.Context, id types.RiskID, actor string, controls []types.Framework) (*model.Risk, error) {
	normalized, err := types.NormalizeFrameworks(controls)
	if err != nil {
		return nil, goerr.Wrap(ErrValidation, err.Error(), goerr.V(RiskIDKey, id))
	}

	names := make([]string, len(normalized))
	for i, c := range normalized {
		names[i] = c.String()
	}

	return uc.update(ctx, id, func(*model.Risk) (model.RiskPatch, *model.LogEntry, error) {
		return model.RiskPatch{MappedControls: &normalized}, &model.LogEntry{
			Actor:  actor,
			Action: model.ActionMapControls,
			Detail: fmt.Sprintf("Mapped→[%s]", strings.Join(names, ", ")),
		}, nil
	})
}

// LinkTicket opens a ticket for the risk and records its key. Concurrent calls
// for the same risk share one ticket.
func (uc *RiskUseCase) LinkTicket(ctx context.Context, id types.RiskID, actor string) (*model.Risk, error) {
	if uc.ticketService == nil {
		return nil, goerr.Wrap(ErrIntegration, "ticket service is not configured")
	}

	// The shared call is detached from every caller's cancellation
	shared := context.WithoutCancel(ctx)
	ch := uc.ticketGroup.DoChan(id.String(), func() (any, error) {
		risk, err := uc.GetRisk(shared, id)
		if err != nil {
			return nil, err
		}
		if risk.TicketLink != "" {
			return nil, goerr.Wrap(ErrTicketAlreadyLinked, "risk already has a ticket",
				goerr.V(RiskIDKey, id), goerr.V("ticket", risk.TicketLink))
		}

		ticket, err := uc.ticketService.CreateTicket(shared, interfaces.TicketRequest{
			Title:       risk.Title,
			Description: risk.Desc,
			RiskID:      risk.ID,
		})
		if err != nil {
			_ = errutil.Handle(shared, err, "failed to create ticket")
			return nil, goerr.Wrap(ErrIntegration, "failed to create ticket", goerr.V(RiskIDKey, id))
		}

		return uc.update(shared, id, func(current *model.Risk) (model.RiskPatch, *model.LogEntry, error) {
			if current.TicketLink != "" {
				return model.RiskPatch{}, nil, goerr.Wrap(ErrTicketAlreadyLinked, "risk already has a ticket",
					goerr.V(RiskIDKey, id), goerr.V("ticket", current.TicketLink))
			}
			link := ticket.ID
			return model.RiskPatch{TicketLink: &link}, &model.LogEntry{
				Actor:  actor,
				Action: model.ActionCreateTicket,
				Detail: "Created ticket " + ticket.ID,
			}, nil
		})
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// shared results must not alias between callers
		return res.Val.(*model.Risk).Clone(), nil
	case <-ctx.Done():
		return nil, goerr.Wrap(ctx.Err(), "ticket linking abandoned by caller", goerr.V(RiskIDKey, id))
	}
}

func wrapRepoError(err error, id types.RiskID) error {
	if errors.Is(err, memory.ErrNotFound) {
		return goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
	}
	return err
}
