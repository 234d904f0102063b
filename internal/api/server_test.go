package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jscales4000/LotPlanner-sub000/internal/audit"
	"github.com/jscales4000/LotPlanner-sub000/internal/calibration"
	"github.com/jscales4000/LotPlanner-sub000/internal/infrastructure/config"
	"github.com/jscales4000/LotPlanner-sub000/internal/infrastructure/logging"
	"github.com/jscales4000/LotPlanner-sub000/internal/layout"
	"github.com/jscales4000/LotPlanner-sub000/internal/measurement"
	"github.com/jscales4000/LotPlanner-sub000/internal/violation"
)

// lotDocument has two 10×8 ft booths 50 px apart at 10 px/ft, so they sit
// 5 ft apart against a required 10 ft.
const lotDocument = `{
  "metadata": {"name": "County Fair", "version": "1.0.0"},
  "canvasSettings": {"width": 5000, "height": 5000, "pixelsPerFoot": 10, "gridSize": 50, "showGrid": true},
  "equipmentDefinitions": [
    {"id": "booth", "name": "Booth", "dimensions": {"shape": "rectangle", "width": 10, "height": 8}}
  ],
  "placedEquipment": [
    {"id": "b1", "equipmentId": "booth", "x": 100, "y": 100, "rotation": 0, "dimensions": {"shape": "rectangle", "width": 10, "height": 8}},
    {"id": "b2", "equipmentId": "booth", "x": 150, "y": 100, "rotation": 0, "dimensions": {"shape": "rectangle", "width": 10, "height": 8},
     "clearance": {"type": "rectangular", "all": 1}}
  ],
  "backgroundImages": [{"id": "sat", "name": "Satellite", "scaleX": 1, "scaleY": 1, "opacity": 1}],
  "measurements": [
    {"id": "m1", "type": "distance", "points": [{"x": 0, "y": 0}, {"x": 200, "y": 0}], "distance": 20, "label": "20.0 ft", "color": "#ef4444", "completed": true}
  ]
}`

type fakeEvents struct {
	mu          sync.Mutex
	connected   bool
	violations  map[string][]violation.Violation
	calibration []calibration.Result
}

func (f *fakeEvents) PublishViolations(projectID string, vs []violation.Violation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.violations == nil {
		f.violations = make(map[string][]violation.Violation)
	}
	f.violations[projectID] = vs
	return nil
}

func (f *fakeEvents) PublishCalibration(_ string, result calibration.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calibration = append(f.calibration, result)
	return nil
}

func (f *fakeEvents) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

type fakeMetrics struct {
	mu           sync.Mutex
	violations   int
	measurements []measurement.Measurement
}

func (f *fakeMetrics) WriteViolationMetric(string, []violation.Violation) {
	f.mu.Lock()
	f.violations++
	f.mu.Unlock()
}

func (f *fakeMetrics) WriteMeasurement(_ string, m measurement.Measurement) {
	f.mu.Lock()
	f.measurements = append(f.measurements, m)
	f.mu.Unlock()
}

type testEnv struct {
	srv     *Server
	handler http.Handler
	events  *fakeEvents
	metrics *fakeMetrics
}

// setupTestDB creates an in-memory SQLite database with the projects and
// project_history tables.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE project_history (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			action TEXT NOT NULL,
			details TEXT,
			created_at TEXT NOT NULL
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		events:  &fakeEvents{connected: true},
		metrics: &fakeMetrics{},
	}
	db := setupTestDB(t)
	srv, err := New(Deps{
		Config: config.APIConfig{Host: "127.0.0.1"},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:   logging.Discard(),
		Projects: layout.NewSQLiteRepository(db),
		History:  audit.NewSQLiteRepository(db),
		Events:   env.events,
		Metrics:  env.metrics,
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.hub.Run(ctx)

	env.srv = srv
	env.handler = srv.Handler()
	return env
}

// do sends body (a string or a value to encode) and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encoding request: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// importLot stores lotDocument and returns its ID.
func (e *testEnv) importLot(t *testing.T) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/projects/import", lotDocument)
	if w.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp projectResponse
	decode(t, w, &resp)
	return resp.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) Error {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	var e Error
	decode(t, w, &e)
	if e.Code != code {
		t.Errorf("code = %q, want %q", e.Code, code)
	}
	return e
}

func TestNew_RequiresDeps(t *testing.T) {
	if _, err := New(Deps{Projects: layout.NewSQLiteRepository(nil)}); err == nil {
		t.Error("New() without logger should fail")
	}
	if _, err := New(Deps{Logger: logging.Discard()}); err == nil {
		t.Error("New() without repository should fail")
	}
}

func TestNew_FillsDefaultSettings(t *testing.T) {
	env := newTestEnv(t)
	s := env.srv.settings

	if s.ArcSegments != 8 {
		t.Errorf("ArcSegments = %d, want 8", s.ArcSegments)
	}
	if s.Canvas != layout.DefaultCanvasSettings() {
		t.Errorf("Canvas = %+v, want defaults", s.Canvas)
	}
	if s.Calibrator == nil || s.Calibrator.MinDistance != calibration.DefaultMinDistance {
		t.Errorf("Calibrator = %+v, want default threshold", s.Calibrator)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.PixelsPerFoot = 12
	cfg.Clearance.ArcSegments = 16
	cfg.Calibration.Target = "background"

	s := SettingsFromConfig(cfg)
	if s.ArcSegments != 16 {
		t.Errorf("ArcSegments = %d, want 16", s.ArcSegments)
	}
	if s.Canvas.PixelsPerFoot != 12 {
		t.Errorf("PixelsPerFoot = %v, want 12", s.Canvas.PixelsPerFoot)
	}
	if s.Calibrator.Target != calibration.TargetBackground {
		t.Errorf("Calibrator.Target = %q, want background", s.Calibrator.Target)
	}
	if s.Viewport.MaxScale != cfg.Viewport.MaxScale {
		t.Errorf("Viewport.MaxScale = %v, want %v", s.Viewport.MaxScale, cfg.Viewport.MaxScale)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp map[string]any
	decode(t, w, &resp)
	if resp["status"] != "ok" || resp["version"] != "test" {
		t.Errorf("health = %v", resp)
	}
	if resp["mqtt"] != true {
		t.Errorf("mqtt = %v, want true", resp["mqtt"])
	}
}

func TestServer_HealthCheckBeforeStart(t *testing.T) {
	env := newTestEnv(t)
	if err := env.srv.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() before Start should fail")
	}
	if err := env.srv.Close(); err != nil {
		t.Errorf("Close() before Start = %v", err)
	}
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/health", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w = httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want client-123", got)
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)
	env.srv.cfg.CORS.AllowedOrigins = []string{"https://planner.example"}
	handler := env.srv.Handler()

	tests := []struct {
		origin string
		want   string
	}{
		{"https://planner.example", "https://planner.example"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Errorf("preflight status = %d, want 204", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/projects", createProjectRequest{Name: "Harvest Festival", Description: "north lot"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp projectResponse
	decode(t, w, &resp)
	if resp.ID == "" || resp.Name != "Harvest Festival" {
		t.Errorf("record = %+v", resp.ProjectRecord)
	}
	if resp.Project.Metadata.Description != "north lot" {
		t.Errorf("description = %q", resp.Project.Metadata.Description)
	}
	if resp.Project.CanvasSettings != env.srv.settings.Canvas {
		t.Errorf("canvas = %+v, want server defaults", resp.Project.CanvasSettings)
	}

	expectError(t, env.do(t, http.MethodPost, "/api/v1/projects", createProjectRequest{}), http.StatusBadRequest, ErrCodeBadRequest)
	expectError(t, env.do(t, http.MethodPost, "/api/v1/projects", "{"), http.StatusBadRequest, ErrCodeBadRequest)
}

func TestListProjects(t *testing.T) {
	env := newTestEnv(t)
	env.importLot(t)
	env.do(t, http.MethodPost, "/api/v1/projects", createProjectRequest{Name: "Empty"})

	w := env.do(t, http.MethodGet, "/api/v1/projects", nil)
	var resp struct {
		Projects []projectSummary `json:"projects"`
		Count    int              `json:"count"`
	}
	decode(t, w, &resp)
	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}

	counts := map[string]int{}
	for _, p := range resp.Projects {
		counts[p.Name] = p.EquipmentCount
	}
	if counts["County Fair"] != 2 || counts["Empty"] != 0 {
		t.Errorf("equipment counts = %v", counts)
	}
}

func TestImportProject_FansOutViolations(t *testing.T) {
	env := newTestEnv(t)

	client := newWSClient(env.srv.hub, nil)
	client.subscribe(WSSubscribePayload{Channels: []string{ChannelViolationsChanged}})
	env.srv.hub.Register(client)

	id := env.importLot(t)

	if got := len(env.events.violations[id]); got != 1 {
		t.Errorf("published %d violations, want 1", got)
	}
	if env.metrics.violations != 1 {
		t.Errorf("violation metrics written = %d, want 1", env.metrics.violations)
	}

	select {
	case data := <-client.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.EventType != ChannelViolationsChanged || msg.ProjectID != id {
			t.Errorf("event = %s/%s, want %s/%s", msg.EventType, msg.ProjectID, ChannelViolationsChanged, id)
		}
	default:
		t.Error("no violations broadcast")
	}
}

func TestImportProject_Disconnected(t *testing.T) {
	env := newTestEnv(t)
	env.events.connected = false

	env.importLot(t)
	if len(env.events.violations) != 0 {
		t.Error("published while disconnected")
	}
	if env.metrics.violations != 1 {
		t.Errorf("violation metrics written = %d, want 1", env.metrics.violations)
	}
}

func TestImportProject_Invalid(t *testing.T) {
	env := newTestEnv(t)

	e := expectError(t, env.do(t, http.MethodPost, "/api/v1/projects/import", `{"metadata": {}}`),
		http.StatusUnprocessableEntity, ErrCodeValidation)
	if len(e.Details) == 0 {
		t.Error("expected schema problems in details")
	}

	expectError(t, env.do(t, http.MethodPost, "/api/v1/projects/import", `not json`),
		http.StatusUnprocessableEntity, ErrCodeValidation)
}

func TestImportProject_Warnings(t *testing.T) {
	env := newTestEnv(t)

	doc := strings.Replace(lotDocument, `"version": "1.0.0"`, `"version": "0.9.0"`, 1)
	w := env.do(t, http.MethodPost, "/api/v1/projects/import", doc)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp projectResponse
	decode(t, w, &resp)
	if len(resp.Warnings) == 0 {
		t.Error("expected a version warning")
	}
}

func TestGetProject(t *testing.T) {
	env := newTestEnv(t)
	id := env.importLot(t)

	w := env.do(t, http.MethodGet, "/api/v1/projects/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp projectResponse
	decode(t, w, &resp)
	if len(resp.Project.PlacedEquipment) != 2 {
		t.Errorf("placed = %d, want 2", len(resp.Project.PlacedEquipment))
	}

	expectError(t, env.do(t, http.MethodGet, "/api/v1/projects/nope", nil), http.StatusNotFound, ErrCodeNotFound)
}

func TestUpdateProject(t *testing.T) {
	env := newTestEnv(t)
	id := env.importLot(t)

	// Move b2 far away; the violation clears.
	doc := strings.Replace(lotDocument, `"x": 150`, `"x": 1500`, 1)
	doc = strings.Replace(doc, `"County Fair"`, `"State Fair"`, 1)
	w := env.do(t, http.MethodPut, "/api/v1/projects/"+id, doc)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp projectResponse
	decode(t, w, &resp)
	if resp.Name != "State Fair" {
		t.Errorf("name = %q, want State Fair", resp.Name)
	}
	if got := len(env.events.violations[id]); got != 0 {
		t.Errorf("published %d violations after move, want 0", got)
	}

	expectError(t, env.do(t, http.MethodPut, "/api/v1/projects/nope", lotDocument), http.StatusNotFound, ErrCodeNotFound)
}

func TestDeleteProject(t *testing.T) {
	env := newTestEnv(t)
	id := env.importLot(t)
	env.srv.cacheFor(id)

	w := env.do(t, http.MethodDelete, "/api/v1/projects/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if _, ok := env.srv.caches[id]; ok {
		t.Error("violation cache not dropped")
	}

	expectError(t, env.do(t, http.MethodGet, "/api/v1/projects/"+id, nil), http.StatusNotFound, ErrCodeNotFound)
	expectError(t, env.do(t, http.MethodDelete, "/api/v1/projects/"+id, nil), http.StatusNotFound, ErrCodeNotFound)
}

func TestExportProject(t *testing.T) {
	env := newTestEnv(t)
	id := env.importLot(t)

	w := env.do(t, http.MethodGet, "/api/v1/projects/"+id+"/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="County Fair.json"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	p, _, err := layout.Import(w.Body.Bytes())
	if err != nil {
		t.Fatalf("exported document does not import: %v", err)
	}
	if p.Metadata.Name != "County Fair" || len(p.PlacedEquipment) != 2 {
		t.Errorf("exported project = %+v", p.Metadata)
	}
}

func TestProjectViolations(t *testing.T) {
	env := newTestEnv(t)
	id := env.importLot(t)

	w := env.do(t, http.MethodGet, "/api/v1/projects/"+id+"/violations", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp violationsResponse
	decode(t, w, &resp)

	if resp.Summary.Total != 1 || len(resp.Violations) != 1 {
		t.Fatalf("violations = %+v", resp)
	}
	v := resp.Violations[0]
	if v.Equipment1 != "b1" || v.Equipment2 != "b2" {
		t.Errorf("pair = %s,%s, want b1,b2", v.Equipment1, v.Equipment2)
	}
	// b1 reaches 5 ft, b2 5 ft plus 1 ft clearance.
	if v.ActualDistance != 5 || v.RequiredDistance != 11 {
		t.Errorf("distances = %v/%v, want 5/11", v.ActualDistance, v.RequiredDistance)
	}
}

func TestProjectClearances(t *testing.T) {
	env := newTestEnv(t)
	id := env.importLot(t)

	w := env.do(t, http.MethodGet, "/api/v1/projects/"+id+"/clearances?segments=4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Clearances []layout.ItemClearance `json:"clearances"`
	}
	decode(t, w, &resp)
	if len(resp.Clearances) != 1 {
		t.Errorf("clearances = %d, want 1 (only b2 has one)", len(resp.Clearances))
	}

	for _, bad := range []string{"0", "x"} {
		expectError(t, env.do(t, http.MethodGet, "/api/v1/projects/"+id+"/clearances?segments="+bad, nil),
			http.StatusBadRequest, ErrCodeBadRequest)
	}
}
