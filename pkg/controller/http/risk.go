package http

import (
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
	"github.com/secmon-lab/riskreg/pkg/utils/safe"
)

// ActorHeader names the caller recorded in change log entries
const ActorHeader = "X-Riskreg-Actor"

func actorOf(r *http.Request) string {
	if actor := r.Header.Get(ActorHeader); actor != "" {
		return actor
	}
	return model.DefaultActor
}

func riskIDOf(r *http.Request) types.RiskID {
	return types.RiskID(chi.URLParam(r, "id"))
}

// indexOf returns the view-order position of id, or -1
func (s *Server) indexOf(r *http.Request, id types.RiskID) (int, error) {
	risks, err := s.uc.Risk.ListRisks(r.Context(), aggregate.ListFilter{})
	if err != nil {
		return -1, err
	}
	for i, risk := range risks {
		if risk.ID == id {
			return i, nil
		}
	}
	return -1, nil
}

func (s *Server) writeRisk(w http.ResponseWriter, r *http.Request, status int, risk *model.Risk) {
	index, err := s.indexOf(r, risk.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, status, toRiskResponse(index, risk))
}

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := aggregate.ListFilter{
		Search: q.Get("search"),
		Owner:  q.Get("owner"),
	}
	if v := q.Get("category"); v != "" {
		c, err := types.ParseCategory(v)
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrValidation, "invalid category", goerr.V("category", v)))
			return
		}
		filter.Category = c
	}
	if v := q.Get("status"); v != "" {
		st, err := types.ParseRiskStatus(v)
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrValidation, "invalid status", goerr.V("status", v)))
			return
		}
		filter.Status = st
	}

	// index is the position in the unfiltered register
	risks, err := s.uc.Risk.ListRisks(r.Context(), aggregate.ListFilter{})
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]riskResponse, 0, len(risks))
	for i, risk := range risks {
		if filter.Match(risk) {
			resp = append(resp, toRiskResponse(i, risk))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"risks": resp})
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateRiskInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.CreateRisk(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusCreated, risk)
}

func (s *Server) getRisk(w http.ResponseWriter, r *http.Request) {
	risk, err := s.uc.Risk.GetRisk(r.Context(), riskIDOf(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusOK, risk)
}

type updateMetaRequest struct {
	Owner  *string `json:"owner"`
	Status *string `json:"status"`
}

func (s *Server) updateMeta(w http.ResponseWriter, r *http.Request) {
	var req updateMetaRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	var status *types.RiskStatus
	if req.Status != nil {
		st, err := types.ParseRiskStatus(*req.Status)
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrValidation, "invalid status", goerr.V("status", *req.Status)))
			return
		}
		status = &st
	}

	risk, err := s.uc.Risk.UpdateMeta(r.Context(), riskIDOf(r), actorOf(r), req.Owner, status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusOK, risk)
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	id := riskIDOf(r)
	index, err := s.indexOf(r, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	removed, err := s.uc.Risk.DeleteRisk(r.Context(), id, actorOf(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRiskResponse(index, removed))
}

func (s *Server) addAssessment(w http.ResponseWriter, r *http.Request) {
	var input usecase.AssessmentInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.AddAssessment(r.Context(), riskIDOf(r), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusCreated, risk)
}

func (s *Server) addTreatment(w http.ResponseWriter, r *http.Request) {
	var input usecase.TreatmentInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.AddTreatment(r.Context(), riskIDOf(r), actorOf(r), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusCreated, risk)
}

func (s *Server) toggleTreatment(w http.ResponseWriter, r *http.Request) {
	tid := types.TreatmentID(chi.URLParam(r, "tid"))
	risk, err := s.uc.Risk.ToggleTreatment(r.Context(), riskIDOf(r), actorOf(r), tid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusOK, risk)
}

func (s *Server) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, goerr.Wrap(usecase.ErrValidation, "multipart field \"file\" is required",
			goerr.V("error", err.Error())))
		return
	}
	defer safe.Close(r.Context(), file)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(header.Filename))
	}

	tid := types.TreatmentID(chi.URLParam(r, "tid"))
	risk, err := s.uc.Risk.UploadAttachment(r.Context(), riskIDOf(r), actorOf(r), tid, header.Filename, contentType, file)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusCreated, risk)
}

func (s *Server) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	risk, err := s.uc.Risk.GetRisk(r.Context(), riskIDOf(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	tid := types.TreatmentID(chi.URLParam(r, "tid"))
	ti := risk.FindTreatment(tid)
	if ti < 0 {
		handleError(w, r, goerr.Wrap(usecase.ErrTreatmentNotFound, "treatment not found",
			goerr.V(usecase.TreatmentIDKey, tid)))
		return
	}

	aid := types.AttachmentID(chi.URLParam(r, "aid"))
	var found *model.Attachment
	for i := range risk.Treatments[ti].Attachments {
		if risk.Treatments[ti].Attachments[i].ID == aid {
			found = &risk.Treatments[ti].Attachments[i]
			break
		}
	}
	if found == nil {
		http.NotFound(w, r)
		return
	}

	rc, err := s.uc.Risk.OpenAttachment(r.Context(), found.Ref)
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer safe.Close(r.Context(), rc)

	contentType := mime.TypeByExtension(path.Ext(found.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(found.Name))
	w.WriteHeader(http.StatusOK)
	n := safe.Copy(r.Context(), w, rc)
	logging.From(r.Context()).Debug("attachment served", "name", found.Name, "bytes", n)
}

type setControlsRequest struct {
	MappedControls []types.Framework `json:"mappedControls"`
}

func (s *Server) setMappedControls(w http.ResponseWriter, r *http.Request) {
	var req setControlsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.SetMappedControls(r.Context(), riskIDOf(r), actorOf(r), req.MappedControls)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusOK, risk)
}

func (s *Server) linkTicket(w http.ResponseWriter, r *http.Request) {
	risk, err := s.uc.Risk.LinkTicket(r.Context(), riskIDOf(r), actorOf(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.writeRisk(w, r, http.StatusOK, risk)
}
