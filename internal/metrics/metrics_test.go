package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fileforge/fileforge/internal/metrics"
)

func TestHandler_ExposesCounters(t *testing.T) {
	m := metrics.New()

	m.Uploads.Inc()
	m.Conversions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	m.Conversions.WithLabelValues(metrics.OutcomeFailure).Inc()
	m.Downloads.Inc()
	m.SweepDeleted.Add(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rec.Code)
	}

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}
	output := string(body)

	for _, metric := range []string{
		"fileforge_uploads_total 1",
		`fileforge_conversions_total{outcome="success"} 1`,
		`fileforge_conversions_total{outcome="failure"} 1`,
		"fileforge_downloads_total 1",
		"fileforge_sweep_deleted_total 3",
	} {
		if !strings.Contains(output, metric) {
			t.Errorf("scrape output missing %q", metric)
		}
	}
}

func TestNew_IsolatedRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.Uploads.Inc()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if strings.Contains(rec.Body.String(), "fileforge_uploads_total 1") {
		t.Error("registries should be isolated")
	}
}

func TestRoutes(t *testing.T) {
	group := metrics.New().Routes()
	if group.Prefix != "/metrics" {
		t.Errorf("unexpected prefix %q", group.Prefix)
	}
	if len(group.Routes) != 1 {
		t.Fatalf("expected one route, got %d", len(group.Routes))
	}
}
