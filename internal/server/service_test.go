package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/goalfund/internal/model"
	"github.com/theirongolddev/goalfund/internal/planfile"
)

func newTestServer(t *testing.T, cfg Config) (*Service, *httptest.Server) {
	t.Helper()
	if cfg.Defaults == (model.Defaults{}) {
		cfg.Defaults = model.DefaultDefaults()
	}
	svc := New(cfg, model.SamplePlan(), nil)
	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(ts.Close)
	return svc, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProjectionEndpoint(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/v1/projection", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := decode[planView](t, resp)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Marriage Fund", view.Rows[0].Goal)
	assert.EqualValues(t, 2_000_000, view.RoundedTotals.Existing)
	assert.Positive(t, view.RoundedTotals.SIP)
}

func TestAddPatchDeleteGoal(t *testing.T) {
	svc, ts := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/goals", `{"name":"Car","current_cost":800000,"years":3}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	row := decode[model.Row](t, resp)
	assert.Equal(t, "Car", row.Goal)
	assert.Equal(t, 2, row.Priority)
	assert.Positive(t, row.SIPPerMonth)

	resp = do(t, http.MethodPatch, ts.URL+"/v1/goals/Car", `{"allocations":{"Cash":100}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 100.0, svc.Plan().Goals[1].Allocations["Cash"], 1e-9)

	resp = do(t, http.MethodPatch, ts.URL+"/v1/goals/Car", `{"name":"Marriage Fund"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodPatch, ts.URL+"/v1/goals/Car", `{"allocations":{"Gold":1}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPatch, ts.URL+"/v1/goals/Car", `{"bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, ts.URL+"/v1/goals/Car", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, svc.Plan().Goals, 1)

	resp = do(t, http.MethodDelete, ts.URL+"/v1/goals/Car", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSourceEndpoints(t *testing.T) {
	svc, ts := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, ts.URL+"/v1/sources", `{"name":"Equity","roi":12}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	src := decode[model.Source](t, resp)
	assert.Equal(t, model.Source{Name: "Equity", ROI: 12}, src)

	resp = do(t, http.MethodPost, ts.URL+"/v1/sources", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Source 4", decode[model.Source](t, resp).Name)

	resp = do(t, http.MethodPost, ts.URL+"/v1/sources", `{"name":"Cash"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/v1/sources", `{"name":"Gold","roi":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPatch, ts.URL+"/v1/sources/Bank", `{"name":"FD","roi":7}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.Source{Name: "FD", ROI: 7}, decode[model.Source](t, resp))
	assert.InDelta(t, 1_000_000.0, svc.Plan().Goals[0].Allocations["FD"], 1e-9)

	resp = do(t, http.MethodPatch, ts.URL+"/v1/sources/FD", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodDelete, ts.URL+"/v1/sources/FD", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotContains(t, svc.Plan().Goals[0].Allocations, "FD")

	resp = do(t, http.MethodPatch, ts.URL+"/v1/sources/FD", `{"roi":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutPlanPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	svc, ts := newTestServer(t, Config{PlanPath: path})

	doc := `{"sources":["Cash"],"df":[{"Goal":"Trip","Current Cost":1000,"Years":1,"Months":0,"Inflation %":0,"New SIP ROI %":0,"Cash":0}]}`
	resp := do(t, http.MethodPut, ts.URL+"/v1/plan", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[planView](t, resp)
	assert.EqualValues(t, 1000, view.RoundedTotals.Lumpsum)

	onDisk, err := planfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, svc.Plan(), onDisk)

	resp = do(t, http.MethodPut, ts.URL+"/v1/plan", `{"df":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Trip", svc.Plan().Goals[0].Name, "failed replace must not change state")
}

func TestGetPlanIsPlanfileDocument(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, ts.URL+"/v1/plan", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p, err := planfile.Decode(resp.Body, planfile.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, model.SamplePlan(), p)
}

func TestEventsRecordMutations(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	do(t, http.MethodPost, ts.URL+"/v1/goals", "")
	do(t, http.MethodPost, ts.URL+"/v1/sources", `{"name":"Cash"}`) // rejected, no event

	resp := do(t, http.MethodGet, ts.URL+"/v1/events", "")
	events := decode[[]Event](t, resp)
	require.Len(t, events, 1)
	assert.Equal(t, "plan_changed", events[0].Type)
	assert.Equal(t, "goal_add", events[0].Op)
	assert.Equal(t, 2, events[0].Goals)
	assert.NotEmpty(t, events[0].UUID)
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, model.Plan{}, nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.EqualValues(t, 2, s.events[0].ID)
	assert.EqualValues(t, 3, s.events[1].ID)
}

func TestStreamSendsSnapshotThenChanges(t *testing.T) {
	svc, ts := newTestServer(t, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "event: "))
			}
		}
	}

	assert.Equal(t, "snapshot", readEvent())

	require.Eventually(t, func() bool {
		return svc.snapshotStatus().SubscriberCount == 1
	}, time.Second, 10*time.Millisecond)

	_, err = svc.mutate("goal_add", func(p model.Plan) (model.Plan, error) {
		p.Goals = append(p.Goals, model.Goal{Name: "New"})
		return p, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "plan_changed", readEvent())
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, Config{})
	do(t, http.MethodGet, ts.URL+"/v1/projection", "")

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "goalfund_http_requests_total")
	assert.Contains(t, string(body), "goalfund_projection_duration_seconds")
}
