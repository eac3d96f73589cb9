package http

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model/aggregate"
	"github.com/secmon-lab/riskreg/pkg/domain/types"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/async"
)

// exportFileName is the base name of downloaded reports
const exportFileName = "risk-register"

func (s *Server) listFrameworks(w http.ResponseWriter, r *http.Request) {
	frameworks := types.AllFrameworks()
	names := make([]string, 0, len(frameworks))
	for _, f := range frameworks {
		names = append(names, f.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"frameworks": names})
}

type dashboardResponse struct {
	Appetite          int                `json:"appetite"`
	Total             int                `json:"total"`
	HighResidualCount int                `json:"highResidualCount"`
	AboveAppetite     int                `json:"aboveAppetite"`
	AvgInherent       float64            `json:"avgInherent"`
	AvgResidual       float64            `json:"avgResidual"`
	LastRiskTitle     string             `json:"lastRiskTitle"`
	Categories        []categoryStatJSON `json:"categories"`
	CreatedByDay      []dayCountJSON     `json:"createdByDay"`
}

type categoryStatJSON struct {
	Category    string `json:"category"`
	Count       int    `json:"count"`
	ResidualSum int    `json:"residualSum"`
}

type dayCountJSON struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	appetite, err := intQuery(r, "appetite")
	if err != nil {
		handleError(w, r, err)
		return
	}

	d, err := s.uc.Dashboard.Dashboard(r.Context(), appetite)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := dashboardResponse{
		Appetite:          d.Appetite,
		Total:             d.Overview.Total,
		HighResidualCount: d.Overview.HighResidualCount,
		AboveAppetite:     d.Overview.AboveAppetite,
		AvgInherent:       d.Overview.AvgInherent,
		AvgResidual:       d.Overview.AvgResidual,
		LastRiskTitle:     d.Overview.LastRiskTitle,
		Categories:        make([]categoryStatJSON, 0, len(d.Categories)),
		CreatedByDay:      make([]dayCountJSON, 0, len(d.CreatedByDay)),
	}
	for _, c := range d.Categories {
		resp.Categories = append(resp.Categories, categoryStatJSON{
			Category:    c.Category.String(),
			Count:       c.Count,
			ResidualSum: c.ResidualSum,
		})
	}
	for _, day := range d.CreatedByDay {
		resp.CreatedByDay = append(resp.CreatedByDay, dayCountJSON{
			Day:   day.Day.Format(aggregate.DateLayout),
			Count: day.Count,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type heatmapResponse struct {
	High   int        `json:"high"`
	Medium int        `json:"medium"`
	Cells  [][]int    `json:"cells"`
	Grid   [][]string `json:"grid"`
}

func (s *Server) heatmap(w http.ResponseWriter, r *http.Request) {
	high, err := intQuery(r, "high")
	if err != nil {
		handleError(w, r, err)
		return
	}
	medium, err := intQuery(r, "medium")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var th *aggregate.Thresholds
	if high != 0 || medium != 0 {
		t := s.uc.Settings().Heatmap
		if high != 0 {
			t.High = high
		}
		if medium != 0 {
			t.Medium = medium
		}
		th = &t
	}

	view, err := s.uc.Dashboard.Heatmap(r.Context(), th)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := heatmapResponse{
		High:   view.Thresholds.High,
		Medium: view.Thresholds.Medium,
		Cells:  make([][]int, aggregate.HeatmapSize),
		Grid:   make([][]string, aggregate.HeatmapSize),
	}
	for row := 0; row < aggregate.HeatmapSize; row++ {
		resp.Cells[row] = make([]int, aggregate.HeatmapSize)
		resp.Grid[row] = make([]string, aggregate.HeatmapSize)
		for col := 0; col < aggregate.HeatmapSize; col++ {
			resp.Cells[row][col] = view.Heatmap.Cells[row][col]
			resp.Grid[row][col] = view.Grid[row][col].String()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := types.ExportFormatJSON
	if v := q.Get("format"); v != "" {
		f, err := types.ParseExportFormat(v)
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrValidation, "invalid export format", goerr.V(usecase.FormatKey, v)))
			return
		}
		format = f
	}

	dateRange, err := aggregate.ParseDateRange(q.Get("from"), q.Get("to"), s.uc.Settings().Location)
	if err != nil {
		handleError(w, r, goerr.Wrap(usecase.ErrValidation, err.Error()))
		return
	}

	var fields []types.ExportField
	if v := q.Get("fields"); v != "" {
		fields, err = types.ParseExportFields(strings.Split(v, ","))
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrValidation, err.Error(), goerr.V(usecase.FieldKey, v)))
			return
		}
	}

	renderer, err := s.uc.Export.Renderer(format)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	req := usecase.ExportRequest{
		Title:  q.Get("title"),
		Range:  dateRange,
		Fields: fields,
	}
	if err := s.uc.Export.Render(r.Context(), &buf, format, req); err != nil {
		handleError(w, r, err)
		return
	}

	name := exportFileName + "-" + time.Now().UTC().Format("20060102") + renderer.Extension()
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type suggestionRequest struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	// keyless drafts never supersede one another
	key := req.Key
	if key == "" {
		key = middleware.GetReqID(r.Context())
	}

	items, err := s.uc.Suggestion.Fetch(r.Context(), key, interfaces.SuggestionRequest{
		Title:    req.Title,
		Category: types.Category(req.Category),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": items})
}

func intQuery(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrValidation, name+" must be an integer", goerr.V(name, v))
	}
	return n, nil
}

// postDigest queues a digest post and returns immediately
func (s *Server) postDigest(w http.ResponseWriter, r *http.Request) {
	if s.digest == nil {
		handleError(w, r, goerr.Wrap(usecase.ErrIntegration, "digest is not configured"))
		return
	}

	async.Dispatch(r.Context(), "digest", s.digest.Post)
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}
