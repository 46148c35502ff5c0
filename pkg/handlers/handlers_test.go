package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnavshah/w2w/pkg/auth"
	"github.com/arnavshah/w2w/pkg/database"
	"github.com/arnavshah/w2w/pkg/export"
	"github.com/arnavshah/w2w/pkg/metrics"
	"github.com/arnavshah/w2w/pkg/models"
	"github.com/arnavshah/w2w/pkg/storage"
	"github.com/arnavshah/w2w/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/xuri/excelize/v2"
)

func newTestHandler(t *testing.T) (*Handler, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.Open(context.Background(), storage.NewMemory(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	h := &Handler{
		Store:   s,
		Auth:    auth.New("jwt-secret", "master-secret"),
		Metrics: metrics.New(),
	}
	r := gin.New()
	h.RegisterAPI(r.Group("/api"))
	return h, r
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func createAgent(t *testing.T, r http.Handler, body interface{}) models.Agent {
	t.Helper()
	w := do(r, http.MethodPost, "/api/agents", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Agent models.Agent `json:"agent"`
	}
	decode(t, w, &resp)
	return resp.Agent
}

func TestAgentLifecycle(t *testing.T) {
	_, r := newTestHandler(t)

	agent := createAgent(t, r, gin.H{
		"name":         "Ana",
		"team":         "Support",
		"daysOff":      []int{0},
		"availability": gin.H{"morning": true},
	})
	if agent.ID == "" || agent.Name != "Ana" {
		t.Fatalf("Unexpected agent %+v", agent)
	}

	w := do(r, http.MethodPut, "/api/agents/"+agent.ID+"/notes/2024-01-10", gin.H{"note": "Training"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 adding note, got %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/agents?q=an", nil)
	var list struct {
		Agents []models.Agent `json:"agents"`
	}
	decode(t, w, &list)
	if len(list.Agents) != 1 || list.Agents[0].Notes["2024-01-10"] != "Training" {
		t.Errorf("Expected Ana with a note, got %+v", list.Agents)
	}

	type noticeBody struct {
		Notice struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"notice"`
	}

	w = do(r, http.MethodPut, "/api/agents/"+agent.ID, gin.H{"name": "Ana B", "team": "Sales"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 updating, got %d: %s", w.Code, w.Body.String())
	}
	var updated noticeBody
	decode(t, w, &updated)
	if updated.Notice.Title != "Edit" || updated.Notice.Description != "Ana B edit" {
		t.Errorf("Unexpected update notice %+v", updated.Notice)
	}

	w = do(r, http.MethodDelete, "/api/agents/"+agent.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 deleting, got %d", w.Code)
	}
	var deleted noticeBody
	decode(t, w, &deleted)
	if deleted.Notice.Title != "Delete" || deleted.Notice.Description != "Name delete" {
		t.Errorf("Unexpected delete notice %+v", deleted.Notice)
	}

	w = do(r, http.MethodDelete, "/api/agents/"+agent.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a deleted agent, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Agent not found") {
		t.Errorf("Expected translated not found message, got %s", w.Body.String())
	}
}

func TestCreateAgentRejectsInvalidInput(t *testing.T) {
	_, r := newTestHandler(t)

	if w := do(r, http.MethodPost, "/api/agents", gin.H{"team": "Support"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a missing name, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/agents", gin.H{"name": "Ana", "notes": gin.H{"10/01/2024": "x"}}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed note date, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/agents", gin.H{"name": "Ana", "daysOff": []int{7}}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an out of range day off, got %d", w.Code)
	}
}

func TestNoteRequiresText(t *testing.T) {
	_, r := newTestHandler(t)
	agent := createAgent(t, r, gin.H{"name": "Ana"})

	if w := do(r, http.MethodPut, "/api/agents/"+agent.ID+"/notes/2024-01-10", gin.H{"note": " "}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an empty note, got %d", w.Code)
	}
	if w := do(r, http.MethodPut, "/api/agents/"+agent.ID+"/notes/2024-13-10", gin.H{"note": "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an invalid date, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/agents/"+agent.ID+"/notes/2024-01-10", nil); w.Code != http.StatusOK {
		t.Errorf("Expected removing an absent note to succeed, got %d", w.Code)
	}
}

func TestTeamLifecycle(t *testing.T) {
	_, r := newTestHandler(t)

	w := do(r, http.MethodPost, "/api/teams", gin.H{"name": "Support"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Team models.Team `json:"team"`
	}
	decode(t, w, &resp)
	if len(resp.Team.RequiredAgents) != 7 {
		t.Errorf("Expected zero requirements for all 7 days, got %v", resp.Team.RequiredAgents)
	}

	w = do(r, http.MethodPut, "/api/teams/"+resp.Team.ID, gin.H{
		"name":           "Support",
		"requiredAgents": gin.H{"1": gin.H{"morning": 2}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodPut, "/api/teams/missing", gin.H{"name": "X"}); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown team, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/teams/"+resp.Team.ID, nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 deleting, got %d", w.Code)
	}
}

func TestGenerateRequiresAgentsAndTeams(t *testing.T) {
	h, r := newTestHandler(t)

	w := do(r, http.MethodPost, "/api/schedule", gin.H{"startDate": "2024-01-10"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", w.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	decode(t, w, &resp)
	if resp.Code != "missing_prerequisites" {
		t.Errorf("Expected missing_prerequisites, got %q", resp.Code)
	}
	if got := testutil.ToFloat64(h.Metrics.Generations.WithLabelValues("missing_prerequisites")); got != 1 {
		t.Errorf("Expected one failed generation counted, got %v", got)
	}
}

func TestGenerateAndExport(t *testing.T) {
	h, r := newTestHandler(t)

	do(r, http.MethodPost, "/api/teams", gin.H{"name": "Support", "requiredAgents": gin.H{"1": gin.H{"morning": 2}}})
	createAgent(t, r, gin.H{
		"name":         "Ana",
		"team":         "Support",
		"daysOff":      []int{0},
		"notes":        gin.H{"2024-01-10": "Training"},
		"availability": gin.H{"morning": true},
	})

	w := do(r, http.MethodPost, "/api/schedule", gin.H{"startDate": "2024-01-10"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var gen struct {
		WeekStart models.Date            `json:"weekStart"`
		Schedule  []models.ScheduleEntry `json:"schedule"`
	}
	decode(t, w, &gen)
	if gen.WeekStart != "2024-01-07" {
		t.Errorf("Expected week to start 2024-01-07, got %s", gen.WeekStart)
	}
	if len(gen.Schedule) != 1 || len(gen.Schedule[0].Shifts) != 7 {
		t.Fatalf("Expected one entry with 7 days, got %+v", gen.Schedule)
	}
	shifts := gen.Schedule[0].Shifts
	if shifts["2024-01-07"].Shift != models.ShiftOff {
		t.Errorf("Expected Sunday off, got %+v", shifts["2024-01-07"])
	}
	if a := shifts["2024-01-10"]; a.Shift != models.ShiftOff || a.Note != "Training" {
		t.Errorf("Expected noted day off, got %+v", a)
	}
	if shifts["2024-01-08"].Shift != models.ShiftMorning {
		t.Errorf("Expected Monday morning, got %+v", shifts["2024-01-08"])
	}

	w = do(r, http.MethodGet, "/api/schedule?team=Sales", nil)
	var filtered struct {
		Schedule []models.ScheduleEntry `json:"schedule"`
	}
	decode(t, w, &filtered)
	if len(filtered.Schedule) != 0 {
		t.Errorf("Expected no Sales entries, got %d", len(filtered.Schedule))
	}

	w = do(r, http.MethodGet, "/api/schedule/coverage", nil)
	var cov struct {
		Gaps []struct {
			Date      models.Date `json:"date"`
			Required  int         `json:"required"`
			Scheduled int         `json:"scheduled"`
		} `json:"gaps"`
	}
	decode(t, w, &cov)
	if len(cov.Gaps) != 1 || cov.Gaps[0].Date != "2024-01-08" || cov.Gaps[0].Scheduled != 1 {
		t.Errorf("Expected one Monday morning gap, got %+v", cov.Gaps)
	}

	w = do(r, http.MethodGet, "/api/schedule/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 export, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != export.ContentType {
		t.Errorf("Unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "w2w_schedule_2024-01-07.xlsx") {
		t.Errorf("Unexpected disposition %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Ana" || rows[1][5] != "Off (Training)" {
		t.Errorf("Unexpected rows %v", rows)
	}
	if got := testutil.ToFloat64(h.Metrics.Exports.WithLabelValues("ok")); got != 1 {
		t.Errorf("Expected one export counted, got %v", got)
	}
}

func TestExportWithoutSchedule(t *testing.T) {
	_, r := newTestHandler(t)

	w := do(r, http.MethodGet, "/api/schedule/export", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "nothing_to_export") {
		t.Errorf("Expected nothing_to_export code, got %s", w.Body.String())
	}
}

func TestLanguage(t *testing.T) {
	h, r := newTestHandler(t)

	if w := do(r, http.MethodPut, "/api/language", gin.H{"language": "fr"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unsupported language, got %d", w.Code)
	}

	w := do(r, http.MethodPut, "/api/language", gin.H{"language": "es"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if h.Store.Language() != models.Spanish {
		t.Errorf("Expected store language es, got %s", h.Store.Language())
	}

	w = do(r, http.MethodGet, "/api/translations", nil)
	var tr struct {
		Language     models.LanguageTag `json:"language"`
		Translations map[string]string  `json:"translations"`
	}
	decode(t, w, &tr)
	if tr.Language != models.Spanish || tr.Translations["agents.name"] != "Nombre" {
		t.Errorf("Expected Spanish table, got %s %q", tr.Language, tr.Translations["agents.name"])
	}

	w = do(r, http.MethodGet, "/api/language", nil)
	var lang struct {
		Current models.LanguageTag `json:"current"`
		Options []languageOption   `json:"options"`
	}
	decode(t, w, &lang)
	if lang.Current != models.Spanish || len(lang.Options) != 2 || !lang.Options[1].Active {
		t.Errorf("Unexpected language response %+v", lang)
	}
}

func TestImportAgentsCSV(t *testing.T) {
	_, r := newTestHandler(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("agents_file", "agents.csv")
	part.Write([]byte("name,team,days_off,morning,afternoon,night\nAna,Support,0|6,true,false,false\nBen,Sales,,,,\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/agents/csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Agents []models.Agent `json:"agents"`
	}
	decode(t, w, &resp)
	if len(resp.Agents) != 2 {
		t.Fatalf("Expected 2 agents, got %d", len(resp.Agents))
	}
	if len(resp.Agents[0].DaysOff) != 2 || resp.Agents[0].Availability.Afternoon {
		t.Errorf("Unexpected first agent %+v", resp.Agents[0])
	}
	if !resp.Agents[1].Availability.Night {
		t.Errorf("Expected missing availability to default to true, got %+v", resp.Agents[1])
	}
}

func TestValidateInput(t *testing.T) {
	_, r := newTestHandler(t)

	w := do(r, http.MethodPost, "/api/validate", gin.H{
		"agents": []gin.H{{"id": "a1", "name": "Ana", "team": "Ops"}, {"id": "a1", "name": "Ben"}},
		"teams":  []gin.H{{"id": "t1", "name": "Support"}},
	})
	var resp struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	decode(t, w, &resp)
	if resp.Valid || !strings.Contains(resp.Error, "Duplicate agent ID") {
		t.Errorf("Expected duplicate id error, got %+v", resp)
	}

	w = do(r, http.MethodPost, "/api/validate", gin.H{
		"agents": []gin.H{{"id": "a1", "name": "Ana", "team": "Ops"}},
		"teams":  []gin.H{{"id": "t1", "name": "Support"}},
	})
	var ok struct {
		Valid        bool     `json:"valid"`
		UnknownTeams []string `json:"unknown_teams"`
	}
	decode(t, w, &ok)
	if !ok.Valid || len(ok.UnknownTeams) != 1 || ok.UnknownTeams[0] != "Ops" {
		t.Errorf("Expected valid with unknown team Ops, got %+v", ok)
	}
}

func TestUsageWithoutDatabase(t *testing.T) {
	_, r := newTestHandler(t)
	if w := do(r, http.MethodGet, "/api/usage", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}

func TestRouterAuth(t *testing.T) {
	h, _ := newTestHandler(t)
	r := NewRouter(h)

	get := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := get("/api/state", ""); code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", code)
	}
	if code := get("/api/state", "ops.deadbeef"); code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a forged key, got %d", code)
	}

	key := h.Auth.GenerateHMACKey("ops")
	if code := get("/api/state", key); code != http.StatusOK {
		t.Errorf("Expected 200 with an integration key, got %d", code)
	}
	if code := get("/admin/keys", key); code != http.StatusUnauthorized {
		t.Errorf("Expected integration keys to be refused on admin routes, got %d", code)
	}

	token, err := h.Auth.CreateToken("admin")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if code := get("/api/state", token); code != http.StatusOK {
		t.Errorf("Expected 200 with an operator token, got %d", code)
	}
	if code := get("/admin/keys", token); code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 for keys without a database, got %d", code)
	}
	if code := get("/metrics", ""); code != http.StatusOK {
		t.Errorf("Expected metrics to be public, got %d", code)
	}
	if code := get("/", ""); code != http.StatusOK {
		t.Errorf("Expected root to be public, got %d", code)
	}
}

func TestRevokedKeyIsRejected(t *testing.T) {
	h, _ := newTestHandler(t)
	db, err := database.InitDB("", filepath.Join(t.TempDir(), "keys.db"))
	if err != nil {
		// the sqlite driver needs cgo
		t.Skipf("sqlite unavailable: %v", err)
	}
	h.DB = db
	r := NewRouter(h)

	token, err := h.Auth.CreateToken("admin")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	send := func(method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&buf).Encode(body)
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+bearer)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodPost, "/admin/keys", token, gin.H{"name": "ops"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 generating a key, got %d: %s", w.Code, w.Body.String())
	}
	var issued struct {
		ID  uint   `json:"id"`
		Key string `json:"key"`
	}
	decode(t, w, &issued)

	if w := send(http.MethodGet, "/api/state", issued.Key, nil); w.Code != http.StatusOK {
		t.Fatalf("Expected an issued key to be accepted, got %d", w.Code)
	}

	if w := send(http.MethodDelete, fmt.Sprintf("/admin/keys/%d", issued.ID), token, nil); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 revoking, got %d", w.Code)
	}
	if w := send(http.MethodGet, "/api/state", issued.Key, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a revoked key, got %d", w.Code)
	}

	var count int64
	db.Model(&database.APIKey{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected the revoked key to stay deleted, found %d rows", count)
	}

	unissued := h.Auth.GenerateHMACKey("never-issued")
	if w := send(http.MethodGet, "/api/state", unissued, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a signed key that was never issued, got %d", w.Code)
	}
}
