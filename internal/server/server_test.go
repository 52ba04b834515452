package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ashvale/logwarden/internal/engine"
	"github.com/ashvale/logwarden/internal/engine/testdata"
)

func newTestServer() *Server {
	return New(engine.New(engine.Config{Seed: 42, Seeded: true}), nil, 0)
}

func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func sampleCSV() string {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var sb strings.Builder
	sb.WriteString(strings.Join(testdata.Header(), ",") + "\n")
	for _, row := range testdata.SteadyTraffic("10.0.0.1", t0, 20, 10*time.Second, []string{"/a", "/b"}, 200) {
		sb.WriteString(strings.Join(row, ",") + "\n")
	}
	for _, row := range testdata.SteadyTraffic("10.0.0.2", t0, 2, 60*time.Second, []string{"/admin"}, 500) {
		sb.WriteString(strings.Join(row, ",") + "\n")
	}
	return sb.String()
}

func TestUploadAndFetchReport(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Routes())
	defer srv.Close()

	body, contentType := multipartCSV(t, "access.csv", sampleCSV())
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/upload", body)
	req.Header.Set("Content-Type", contentType)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "/reports/") {
		t.Fatalf("expected report location, got %q", location)
	}

	reportResp, err := http.Get(srv.URL + location)
	if err != nil {
		t.Fatalf("report request: %v", err)
	}
	defer reportResp.Body.Close()
	if reportResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", reportResp.StatusCode)
	}

	var report engine.Report
	if err := json.NewDecoder(reportResp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Summary.TotalAddresses != 2 {
		t.Fatalf("expected 2 addresses, got %d", report.Summary.TotalAddresses)
	}
	if len(report.Results) == 0 {
		t.Fatal("expected scored results")
	}
}

func TestUploadRejectsNonCSV(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Routes())
	defer srv.Close()

	body, contentType := multipartCSV(t, "access.txt", sampleCSV())
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-CSV upload, got %d", resp.StatusCode)
	}
}

func TestUploadMissingColumn(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Routes())
	defer srv.Close()

	csv := "ip,timestamp,endpoint\n10.0.0.1,2026-03-01T12:00:00Z,/a\n"
	body, contentType := multipartCSV(t, "bad.csv", csv)
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing column, got %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if !strings.Contains(payload["error"], "status") {
		t.Fatalf("expected error naming the missing field, got %q", payload["error"])
	}
}

func TestUploadEmptyBatch(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Routes())
	defer srv.Close()

	csv := "ip,timestamp,endpoint,status\n10.0.0.1,not-a-time,/a,200\n"
	body, contentType := multipartCSV(t, "empty.csv", csv)
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty batch, got %d", resp.StatusCode)
	}
}

func TestReportNotFound(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/reports/deadbeef")
	if err != nil {
		t.Fatalf("report request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAccountsDisabled(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Routes())
	defer srv.Close()

	for _, path := range []string{"/register", "/login"} {
		resp, err := http.Post(srv.URL+path, "application/json",
			strings.NewReader(`{"username":"a","email":"a@b.c","password":"pw"}`))
		if err != nil {
			t.Fatalf("%s request: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503 without account store, got %d", path, resp.StatusCode)
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
