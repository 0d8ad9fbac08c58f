package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/planfile"
	"github.com/theirongolddev/goalfund/internal/projection"
	"github.com/theirongolddev/goalfund/internal/schema"
)

const maxBody = 1 << 20

// Handler returns the HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "GET /healthz", s.handleHealth)
	s.route(mux, "GET /v1/status", s.handleStatus)
	s.route(mux, "GET /v1/plan", s.handleGetPlan)
	s.route(mux, "PUT /v1/plan", s.handlePutPlan)
	s.route(mux, "GET /v1/projection", s.handleProjection)
	s.route(mux, "POST /v1/goals", s.handleAddGoal)
	s.route(mux, "PATCH /v1/goals/{name}", s.handlePatchGoal)
	s.route(mux, "DELETE /v1/goals/{name}", s.handleDeleteGoal)
	s.route(mux, "POST /v1/sources", s.handleAddSource)
	s.route(mux, "PATCH /v1/sources/{name}", s.handlePatchSource)
	s.route(mux, "DELETE /v1/sources/{name}", s.handleDeleteSource)
	s.route(mux, "GET /v1/events", s.handleEvents)
	s.route(mux, "GET /v1/stream", s.handleStream)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return mux
}

func (s *Service) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		s.metrics.requests.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		s.metrics.requestLatency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var mpe *planfile.MalformedPlanError
	switch {
	case errors.Is(err, schema.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, schema.ErrInvalidName),
		errors.Is(err, schema.ErrInvalidROI),
		errors.As(err, &mpe):
		return http.StatusBadRequest
	case errors.Is(err, schema.ErrGoalNotFound),
		errors.Is(err, schema.ErrSourceNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &planfile.MalformedPlanError{Reason: "request body", Err: err}
	}
	return nil
}

// planView is the projection payload: raw values plus display totals.
type planView struct {
	Rows          []model.Row              `json:"rows"`
	Totals        model.Totals             `json:"totals"`
	RoundedTotals projection.RoundedTotals `json:"rounded_totals"`
}

func newPlanView(p model.Projection) planView {
	rows := p.Rows
	if rows == nil {
		rows = []model.Row{}
	}
	return planView{Rows: rows, Totals: p.Totals, RoundedTotals: projection.RoundTotals(p.Totals)}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleGetPlan(w http.ResponseWriter, _ *http.Request) {
	data, err := planfile.Marshal(s.Plan(), planfile.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Service) handlePutPlan(w http.ResponseWriter, r *http.Request) {
	next, err := planfile.Decode(io.LimitReader(r.Body, maxBody), planfile.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.mutate("replace", func(model.Plan) (model.Plan, error) { return next, nil }); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanView(s.Projection()))
}

func (s *Service) handleProjection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newPlanView(s.Projection()))
}

func (s *Service) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	var patch schema.GoalPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}

	var added model.Goal
	next, err := s.mutate("goal_add", func(p model.Plan) (model.Plan, error) {
		p, g := schema.AddGoal(p, s.cfg.Defaults)
		if patch.IsEmpty() {
			added = g
			return p, nil
		}
		p, err := schema.PatchGoal(p, g.Name, patch)
		if err != nil {
			return p, err
		}
		added = p.Goals[len(p.Goals)-1]
		return p, nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projection.ProjectGoal(added, next.Sources))
}

func (s *Service) handlePatchGoal(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var patch schema.GoalPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}

	next, err := s.mutate("goal_update", func(p model.Plan) (model.Plan, error) {
		return schema.PatchGoal(p, name, patch)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	target := name
	if patch.Name != nil {
		target = *patch.Name
	}
	idx := next.GoalIndex(target)
	if idx < 0 {
		s.writeError(w, fmt.Errorf("goal %q: %w", target, schema.ErrGoalNotFound))
		return
	}
	writeJSON(w, http.StatusOK, projection.ProjectGoal(next.Goals[idx], next.Sources))
}

func (s *Service) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	_, err := s.mutate("goal_delete", func(p model.Plan) (model.Plan, error) {
		if p.GoalIndex(name) < 0 {
			return p, fmt.Errorf("deleting goal %q: %w", name, schema.ErrGoalNotFound)
		}
		return schema.DeleteGoal(p, name), nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sourceRequest struct {
	Name *string  `json:"name,omitempty"`
	ROI  *float64 `json:"roi,omitempty"`
}

func (s *Service) handleAddSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	d := s.cfg.Defaults
	if req.ROI != nil {
		d.SourceROI = *req.ROI
	}
	name := ""
	if req.Name != nil {
		name = *req.Name
		if name == "" {
			s.writeError(w, fmt.Errorf("adding source: %w", schema.ErrInvalidName))
			return
		}
	}

	var added model.Source
	_, err := s.mutate("source_add", func(p model.Plan) (model.Plan, error) {
		p, src, err := schema.AddSource(p, name, d)
		added = src
		return p, err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Service) handlePatchSource(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req sourceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	next, err := s.mutate("source_update", func(p model.Plan) (model.Plan, error) {
		if p.SourceIndex(name) < 0 {
			return p, fmt.Errorf("updating source %q: %w", name, schema.ErrSourceNotFound)
		}
		current := name
		var err error
		if req.Name != nil {
			if p, err = schema.RenameSource(p, name, *req.Name); err != nil {
				return p, err
			}
			current = *req.Name
		}
		if req.ROI != nil {
			if p, err = schema.SetSourceROI(p, current, *req.ROI); err != nil {
				return p, err
			}
		}
		return p, nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	target := name
	if req.Name != nil {
		target = *req.Name
	}
	writeJSON(w, http.StatusOK, next.Sources[next.SourceIndex(target)])
}

func (s *Service) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	_, err := s.mutate("source_delete", func(p model.Plan) (model.Plan, error) {
		if p.SourceIndex(name) < 0 {
			return p, fmt.Errorf("deleting source %q: %w", name, schema.ErrSourceNotFound)
		}
		return schema.DeleteSource(p, name), nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Current totals go out first so clients need no separate fetch.
	writeSSE(w, s.newEvent(0, "snapshot", "", s.Plan()))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w io.Writer, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
