package qloo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", server.URL, WithRateLimit(time.Microsecond))
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("X-Api-Key header = %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "Taylor Swift" {
			t.Errorf("query = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"entity_id":"e1","name":"Taylor Swift","affinity_score":0.93}]}`))
	}))

	entity, err := client.Search(context.Background(), "Taylor Swift")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if entity == nil || entity.ID != "e1" || entity.AffinityScore != 0.93 {
		t.Errorf("Search result = %+v", entity)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))

	entity, err := client.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if entity != nil {
		t.Errorf("Expected nil for empty results, got %+v", entity)
	}
}

func TestSearch_APIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))

	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("Expected error on non-200 response")
	}
}

func TestTrendingByCategory_MergesInsights(t *testing.T) {
	searchCalls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			searchCalls++
			fmt.Fprintf(w, `{"results":[{"entity_id":"search-%d","name":"Found %d"}]}`, searchCalls, searchCalls)
		case "/v2/insights":
			if got := r.URL.Query().Get("filter.type"); got != "urn:entity:movie" {
				t.Errorf("filter.type = %q", got)
			}
			_, _ = w.Write([]byte(`{"results":[
				{"entity_id":"i1"},{"entity_id":"i2"},{"entity_id":"i3"},{"entity_id":"i4"},
				{"entity_id":"i5"},{"entity_id":"i6"},{"entity_id":"i7"}]}`))
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}))

	entities, err := client.TrendingByCategory(context.Background(), "movies", nil)
	if err != nil {
		t.Fatalf("TrendingByCategory failed: %v", err)
	}
	if len(entities) != 10 {
		t.Fatalf("Expected the capped 10 entities, got %d", len(entities))
	}
	// Enhanced entities lead, search results follow.
	if entities[0].ID != "i1" || entities[4].ID != "i5" {
		t.Errorf("Insights entities should lead: %s, %s", entities[0].ID, entities[4].ID)
	}
	for _, e := range entities[5:] {
		if len(e.ID) < 7 || e.ID[:7] != "search-" {
			t.Errorf("Expected a search entity in the tail, got %s", e.ID)
		}
	}
}

func TestTrendingByCategory_InsightsFailureDegrades(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte(`{"results":[{"entity_id":"s1","name":"Found"}]}`))
		case "/v2/insights":
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}
	}))

	entities, err := client.TrendingByCategory(context.Background(), "books", nil)
	if err != nil {
		t.Fatalf("TrendingByCategory failed: %v", err)
	}
	if len(entities) == 0 {
		t.Fatal("Search results alone should still produce entities")
	}
	for _, e := range entities {
		if e.ID != "s1" {
			t.Errorf("Expected only search entities, got %s", e.ID)
		}
	}
}

func TestTrendingByCategory_AllFailuresError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))

	if _, err := client.TrendingByCategory(context.Background(), "artists", nil); err == nil {
		t.Fatal("Expected error when no entity could be gathered")
	}
}

func TestDemographics(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("filter.type"); got != "urn:demographics" {
			t.Errorf("filter.type = %q", got)
		}
		if got := q.Get("signal.interests.entities"); got != "e1" {
			t.Errorf("signal.interests.entities = %q", got)
		}
		_, _ = w.Write([]byte(`{"results":[{"demographic_id":"d1","name":"Gen Z","affinity_score":0.81}]}`))
	}))

	demos, err := client.Demographics(context.Background(), "e1")
	if err != nil {
		t.Fatalf("Demographics failed: %v", err)
	}
	if len(demos) != 1 || demos[0].Name != "Gen Z" {
		t.Errorf("Demographics = %+v", demos)
	}
}

func TestSeedQueries(t *testing.T) {
	for _, category := range []string{"artists", "movies", "books", "tv_shows"} {
		queries, sample := seedQueries(category)
		if len(queries) == 0 {
			t.Errorf("No seed queries for %q", category)
		}
		if sample != 8 {
			t.Errorf("Sample size for %q = %d, want 8", category, sample)
		}
	}

	_, sample := seedQueries("trends")
	if sample != 15 {
		t.Errorf("Sample size for trends = %d, want 15", sample)
	}
}

func TestSampleQueries(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}
	got := sampleQueries(pool, 3)
	if len(got) != 3 {
		t.Fatalf("Expected 3 sampled queries, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q] {
			t.Errorf("Duplicate sampled query %q", q)
		}
		seen[q] = true
	}

	all := sampleQueries(pool, 10)
	if len(all) != len(pool) {
		t.Errorf("Sampling beyond the pool should return the whole pool, got %d", len(all))
	}
}
