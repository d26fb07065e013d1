package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMonitorHealthTransitions(t *testing.T) {
	m := NewMonitor()

	if !m.IsHealthy() {
		t.Error("Monitor with no runs should be healthy")
	}
	if m.GetStatusSummary() != "No runs yet" {
		t.Errorf("Unexpected summary %q", m.GetStatusSummary())
	}

	m.RecordPartialFailure(errors.New("site A unreachable"), time.Second)
	if !m.IsHealthy() {
		t.Error("Partial failures should not change health")
	}

	m.RecordCriticalFailure(errors.New("all sites failed"), time.Second)
	if m.IsHealthy() {
		t.Error("Critical failure should mark monitor unhealthy")
	}

	m.RecordSuccess("2 sites forecast", time.Second)
	if !m.IsHealthy() {
		t.Error("Success should restore health")
	}
	if !strings.Contains(m.GetStatusSummary(), "2 sites forecast") {
		t.Errorf("Summary should include last run summary, got %q", m.GetStatusSummary())
	}
	if !strings.Contains(m.GetStatusSummary(), "2 runs, 1 partial failures") {
		t.Errorf("Summary should include counters, got %q", m.GetStatusSummary())
	}
}

func TestHealthHandler(t *testing.T) {
	m := NewMonitor()
	handler := NewHealthServer(m, "").Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 before any run, got %d", rec.Code)
	}

	m.RecordCriticalFailure(errors.New("boom"), time.Millisecond)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 after critical failure, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "boom") {
		t.Errorf("Unexpected status response %d %q", rec.Code, rec.Body.String())
	}
}
