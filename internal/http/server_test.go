package httpapp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hipaaguard/hipaaguard/internal/http/handlers"
	"github.com/hipaaguard/hipaaguard/internal/policy/hipaa"
	"github.com/hipaaguard/hipaaguard/internal/report"
	"github.com/hipaaguard/hipaaguard/internal/scan"
	"github.com/hipaaguard/hipaaguard/internal/store"
)

type stubIndex struct {
	records []store.ScanRecord
	err     error
}

func (s *stubIndex) Get(ctx context.Context, scanID string) (store.ScanRecord, error) {
	if s.err != nil {
		return store.ScanRecord{}, s.err
	}
	for _, rec := range s.records {
		if rec.ScanID == scanID {
			return rec, nil
		}
	}
	return store.ScanRecord{}, store.ErrNotFound
}

func (s *stubIndex) List(ctx context.Context, projectID string, limit int) ([]store.ScanRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, idx handlers.ScanIndex, archive store.Archive) *EchoServer {
	t.Helper()
	return NewEchoServer(&handlers.Handlers{
		Scanner: &scan.Scanner{Library: hipaa.Library(), Logger: quietLogger()},
		Index:   idx,
		Archive: archive,
		Library: hipaa.Library(),
	}, quietLogger())
}

func TestHealthzRoute(t *testing.T) {
	es := newTestServer(t, &stubIndex{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestGetScanRouteServesArchivedReport(t *testing.T) {
	archive := store.DirArchive{Dir: t.TempDir()}
	score := 92
	rep := report.Report{
		ScanID:          "s1",
		ProjectID:       "prod-phi",
		ScanTimestamp:   time.Now().UTC(),
		Status:          report.StatusCompleted,
		ComplianceScore: &score,
		TotalViolations: 1,
		Violations:      []report.Violation{{ID: "v1", Type: "hipaa_violation", Title: "open ssh"}},
	}
	if err := archive.Put(context.Background(), rep); err != nil {
		t.Fatal(err)
	}

	idx := &stubIndex{records: []store.ScanRecord{{ScanID: "s1", ProjectID: "prod-phi"}}}
	es := newTestServer(t, idx, archive)

	req := httptest.NewRequest(http.MethodGet, "/api/scans/s1", nil)
	rec := httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"open ssh"`) {
		t.Fatalf("body missing archived violations: %s", rec.Body.String())
	}
}

func TestGetScanRouteFallsBackToIndexRow(t *testing.T) {
	idx := &stubIndex{records: []store.ScanRecord{{ScanID: "s2", ProjectID: "prod-phi", TotalViolations: 3}}}
	es := newTestServer(t, idx, store.DirArchive{Dir: t.TempDir()})

	req := httptest.NewRequest(http.MethodGet, "/api/scans/s2", nil)
	rec := httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total_violations":3`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestGetScanRouteNotFound(t *testing.T) {
	es := newTestServer(t, &stubIndex{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scans/ghost", nil)
	rec := httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInternalErrorsAreGenericJSON(t *testing.T) {
	es := newTestServer(t, &stubIndex{err: errors.New("very sensitive db error")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scans", nil)
	rec := httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "very sensitive") {
		t.Fatalf("response leaked error details: %q", body)
	}
	if !strings.Contains(body, "internal server error") {
		t.Fatalf("response missing generic message: %q", body)
	}
}

func TestRulesRoute(t *testing.T) {
	es := newTestServer(t, &stubIndex{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rules", nil)
	rec := httptest.NewRecorder()
	es.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "storage-public-access-prevention") {
		t.Fatalf("body missing rule ids: %s", rec.Body.String())
	}
}
