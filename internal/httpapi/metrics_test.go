package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"synapd/internal/manager"
)

func scrape(t *testing.T) []byte {
	t.Helper()
	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	return mrr.Body.Bytes()
}

// TestMetrics_UsesRoutePattern ensures requests are labelled by the chi route
// pattern instead of the raw URL path.
func TestMetrics_UsesRoutePattern(t *testing.T) {
	w := serve(t, &mockService{}, httptest.NewRequest(http.MethodDelete, "/models/resnet50", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	body := scrape(t)
	if !bytes.Contains(body, []byte("synapd_http_requests_total")) || !bytes.Contains(body, []byte(`path="/models/{id}"`)) {
		t.Fatalf("expected synapd_http_requests_total labelled with /models/{id}")
	}
	if bytes.Contains(body, []byte(`path="/models/resnet50"`)) {
		t.Fatalf("raw path leaked into labels")
	}
}

func TestMetrics_BackpressureCounted(t *testing.T) {
	svc := &mockService{inferErr: manager.ErrModelNotFound("x")}
	if w := serve(t, svc, jsonRequest(http.MethodPost, "/infer", `{"inputs":[]}`)); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	IncrementBackpressure("")
	body := scrape(t)
	if !bytes.Contains(body, []byte(`synapd_http_backpressure_total{reason="unspecified"}`)) {
		t.Fatalf("expected backpressure counter with unspecified reason")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	w := serve(t, &mockService{}, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("synapd_http_inflight_requests")) {
		t.Fatalf("status=%d", w.Code)
	}
}
