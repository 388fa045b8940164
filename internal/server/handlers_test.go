package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"trendletter/internal/config"
	"trendletter/internal/core"
	"trendletter/internal/email"
	"trendletter/internal/generator"
	"trendletter/internal/metrics"
	"trendletter/internal/store"
	"trendletter/internal/subscription"
)

type stubPipeline struct{}

func (stubPipeline) GenerateArticles(ctx context.Context, req generator.Request) []core.Article {
	articles := make([]core.Article, 0, len(req.Categories))
	for _, category := range req.Categories {
		articles = append(articles, core.Article{
			Title:    "Article about " + category,
			Body:     "Body.",
			Category: category,
		})
	}
	return articles
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	dispatcher := email.NewDispatcher("", "Trendletter <hello@example.com>")
	coordinator := subscription.NewCoordinator(st, stubPipeline{}, dispatcher)

	registry := prometheus.NewRegistry()
	metrics.NewCollector(registry)

	return New(coordinator, dispatcher, st, registry, config.Server{Port: 0})
}

func postJSON(t *testing.T, s *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d", rec.Code)
	}
	var health HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health.Status != "ok" || health.Checks["database"] != "ok" {
		t.Errorf("Health = %+v", health)
	}
}

func TestHandleSubscribe(t *testing.T) {
	s := newTestServer(t)

	payload := map[string]any{
		"email":      "reader@example.com",
		"name":       "Reader",
		"categories": []string{"artists", "movies"},
	}

	rec := postJSON(t, s, "/api/subscribe", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/subscribe status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp SubscribeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || resp.Status != subscription.StatusSent {
		t.Errorf("First subscribe response = %+v", resp)
	}
	if resp.Newsletter.ID == "" || resp.Newsletter.Articles != 2 {
		t.Errorf("Newsletter summary = %+v", resp.Newsletter)
	}

	// Same subscriber again in the same week: still 200, different status.
	rec = postJSON(t, s, "/api/subscribe", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("Repeat subscribe status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != subscription.StatusAlreadySent {
		t.Errorf("Repeat subscribe status = %q", resp.Status)
	}
}

func TestHandleSubscribe_Validation(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/api/subscribe", map[string]any{
		"email":      "reader@example.com",
		"categories": []string{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Invalid subscribe status = %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Success || resp.Field != "categories" {
		t.Errorf("Error response = %+v", resp)
	}
}

func TestHandleSubscribe_BadJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Malformed body status = %d", rec.Code)
	}
}

func TestHandleGenerate(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s, "/api/generate", map[string]any{"categories": []string{"books"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/generate status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || !resp.Created {
		t.Errorf("First generate response = %+v", resp)
	}
	if len(resp.Articles) != 1 {
		t.Errorf("Articles = %d", len(resp.Articles))
	}

	rec = postJSON(t, s, "/api/generate", map[string]any{"categories": []string{"books"}})
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Created {
		t.Error("Second generate in the same week should report created=false")
	}
}

func TestHandleEmailStatus(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/email-status", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/email-status status = %d", rec.Code)
	}
	var status email.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if status.Mode != "simulation" || status.HasAPIKey {
		t.Errorf("Status = %+v", status)
	}
}

func TestHandleStats(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/stats status = %d", rec.Code)
	}
	var stats store.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats.Users != 0 || stats.Newsletters != 0 {
		t.Errorf("Fresh store stats = %+v", stats)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %d", rec.Code)
	}
}
