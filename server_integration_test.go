package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"edak/pkg/feed"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func recordMultipart(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()
	return buf, mw.FormDataContentType()
}

// integration tests are opt-in: set DB_DSN_TEST=1 and DB_DSN to run them
// against a scratch Postgres.
func setupTestServer(t *testing.T) (*gin.Engine, *app) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	tmp := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := LoadConfig(log)
	cfg.UploadBase = tmp
	cfg.ReportConfig = filepath.Join(tmp, "report_config.json")
	a := &app{cfg: cfg, log: log, hub: feed.NewHub()}
	a.db = mustOpenDB(cfg, log)
	migrateAndSeed(a.db, log)
	a.reports = NewReportConfigStore(cfg.ReportConfig, log)
	r := gin.New()
	a.routes(r)
	return r, a
}

func loginAs(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp := performRequest(r, http.MethodPost, "/api/login", bytes.NewBuffer(body), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login as %s failed status=%d body=%s", email, resp.Code, resp.Body.String())
	}
	var out map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", out)
	}
	return token
}

func TestFullFlow(t *testing.T) {
	r, _ := setupTestServer(t)
	admin := loginAs(t, r, envOr("SEED_ADMIN_EMAIL", "admin@office.local"), envOr("SEED_ADMIN_PASSWORD", "admin123"))

	// 1. Create a correspondence record
	inward := fmt.Sprintf("IT-%d", os.Getpid())
	body, ct := recordMultipart(t, map[string]string{
		"department":    "general",
		"subject":       "Street light repair request",
		"status":        "Pending",
		"inward_number": inward,
		"inward_date":   "2025-04-01",
	})
	resp := performRequest(r, http.MethodPost, "/api/records", body, admin, ct)
	if resp.Code != 200 {
		t.Fatalf("create record failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	recID := int(created["id"].(float64))

	// 2. Duplicate inward number is rejected with no write
	body, ct = recordMultipart(t, map[string]string{
		"department":    "revenue",
		"subject":       "Completely different subject",
		"status":        "Pending",
		"inward_number": inward,
	})
	resp = performRequest(r, http.MethodPost, "/api/records", body, admin, ct)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate inward number, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 3. The checker sees the duplicate, and excludes the record itself
	resp = performRequest(r, http.MethodGet, "/api/check-inward?number="+inward, nil, admin, "")
	if resp.Code != 200 || !bytes.Contains(resp.Body.Bytes(), []byte("true")) {
		t.Fatalf("expected duplicate=true, got %d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/api/check-inward?number=%s&exclude=%d", inward, recID), nil, admin, "")
	if !bytes.Contains(resp.Body.Bytes(), []byte("false")) {
		t.Fatalf("expected duplicate=false when excluding self, body=%s", resp.Body.String())
	}

	// 4. Unchanged edit is a no-op with a notice
	body, ct = recordMultipart(t, map[string]string{
		"department":    "general",
		"subject":       "Street light repair request",
		"status":        "Pending",
		"inward_number": inward,
		"inward_date":   "2025-04-01",
	})
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/api/records/%d", recID), body, admin, ct)
	if resp.Code != 200 || !bytes.Contains(resp.Body.Bytes(), []byte("no changes")) {
		t.Fatalf("expected no-changes notice, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Diary entry accepts an overnight pair
	dBody, _ := json.Marshal(map[string]string{
		"date":           "2025-04-02",
		"from_place":     "Pune",
		"to_place":       "Mumbai",
		"departure":      "11:30 PM",
		"arrival":        "12:15 AM",
		"distance":       "150",
		"vehicle_number": "mh 12 ab 1234",
	})
	resp = performRequest(r, http.MethodPost, "/api/diary", bytes.NewBuffer(dBody), admin, "application/json")
	if resp.Code != 200 {
		t.Fatalf("diary create failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. The same pair is rejected by the logbook
	lBody, _ := json.Marshal(map[string]string{
		"date":       "2025-04-02",
		"departure":  "11:30 PM",
		"arrival":    "12:15 AM",
		"odo_before": "1000",
		"odo_after":  "1150",
	})
	resp = performRequest(r, http.MethodPost, "/api/logbook", bytes.NewBuffer(lBody), admin, "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for overnight logbook pair, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Unauthorized access to a protected endpoint is 401
	unauth := performRequest(r, http.MethodGet, "/api/records", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list, got %d", unauth.Code)
	}

	// clean up the created record so reruns stay green
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/api/records/%d", recID), nil, admin, "")
	if resp.Code != 200 {
		t.Fatalf("delete record failed status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestLogBookPartitioning(t *testing.T) {
	r, a := setupTestServer(t)
	admin := loginAs(t, r, envOr("SEED_ADMIN_EMAIL", "admin@office.local"), envOr("SEED_ADMIN_PASSWORD", "admin123"))

	// create a subadmin through the admin-only user endpoint
	email := fmt.Sprintf("clerk%d@office.local", os.Getpid())
	uBody, _ := json.Marshal(map[string]string{
		"name": "Clerk", "email": email, "mobile": "9876543210",
		"role": "subadmin", "password": "clerk123",
	})
	resp := performRequest(r, http.MethodPost, "/api/users", bytes.NewBuffer(uBody), admin, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create user failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	clerk := loginAs(t, r, email, "clerk123")

	// the clerk may not manage users
	resp = performRequest(r, http.MethodGet, "/api/users", nil, clerk, "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for subadmin user list, got %d", resp.Code)
	}

	// a clerk's logbook entry lands in the personal partition
	lBody, _ := json.Marshal(map[string]string{
		"date": "2025-04-03", "odo_before": "500", "odo_after": "520",
	})
	resp = performRequest(r, http.MethodPost, "/api/logbook", bytes.NewBuffer(lBody), clerk, "application/json")
	if resp.Code != 200 {
		t.Fatalf("clerk logbook create failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var out map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	entryID := int(out["id"].(float64))

	// the admin's shared partition does not contain it
	resp = performRequest(r, http.MethodGet, "/api/logbook", nil, admin, "")
	if bytes.Contains(resp.Body.Bytes(), []byte(fmt.Sprintf(`"id":%d`, entryID))) {
		t.Fatalf("clerk entry leaked into the shared partition: %s", resp.Body.String())
	}
	// the clerk sees it
	resp = performRequest(r, http.MethodGet, "/api/logbook", nil, clerk, "")
	if !bytes.Contains(resp.Body.Bytes(), []byte(fmt.Sprintf(`"id":%d`, entryID))) {
		t.Fatalf("clerk cannot see own entry: %s", resp.Body.String())
	}

	// clean up
	performRequest(r, http.MethodDelete, fmt.Sprintf("/api/logbook/%d", entryID), nil, clerk, "")
	var cleanupID struct{ ID uint }
	a.db.Raw("SELECT id FROM users WHERE email = ?", email).Scan(&cleanupID)
	a.db.Exec("DELETE FROM refresh_tokens WHERE user_id = ?", cleanupID.ID)
	a.db.Exec("DELETE FROM users WHERE email = ?", email)
}

func TestReportConfigRoundTrip(t *testing.T) {
	r, _ := setupTestServer(t)
	admin := loginAs(t, r, envOr("SEED_ADMIN_EMAIL", "admin@office.local"), envOr("SEED_ADMIN_PASSWORD", "admin123"))

	body, _ := json.Marshal(map[string]string{"office_name": "Tahsil Office", "officer_name": "S. Patil"})
	resp := performRequest(r, http.MethodPut, "/api/report-config", bytes.NewBuffer(body), admin, "application/json")
	if resp.Code != 200 {
		t.Fatalf("save report config failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/api/report-config", nil, admin, "")
	if !bytes.Contains(resp.Body.Bytes(), []byte("Tahsil Office")) {
		t.Fatalf("report config not returned: %s", resp.Body.String())
	}

	resp = performRequest(r, http.MethodGet, "/api/diary/report?month=2025-04", nil, admin, "")
	if resp.Code != 200 {
		t.Fatalf("diary report failed status=%d body=%s", resp.Code, resp.Body.String())
	}
}
