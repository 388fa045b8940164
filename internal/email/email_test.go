package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendletter/internal/core"
)

func TestSend_NoAPIKeySimulates(t *testing.T) {
	d := NewDispatcher("", "Trendletter <hello@example.com>")

	result := d.Send(context.Background(), "reader@example.com", "Subject", "<p>hi</p>")
	if !result.Delivered {
		t.Error("Simulated sends still count as delivered")
	}
	if !result.Simulated {
		t.Error("Missing API key must put the dispatcher in simulation mode")
	}
}

func TestSend_Success(t *testing.T) {
	var captured sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type header = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"re_123"}`))
	}))
	defer server.Close()

	d := NewDispatcher("test-key", "Trendletter <hello@example.com>", WithEndpoint(server.URL))
	result := d.Send(context.Background(), "reader@example.com", "Weekly Trends", "<p>hi</p>")

	if !result.Delivered || result.Simulated {
		t.Errorf("Expected a real delivery, got %+v", result)
	}
	if result.ProviderID != "re_123" {
		t.Errorf("ProviderID = %q", result.ProviderID)
	}
	if len(captured.To) != 1 || captured.To[0] != "reader@example.com" {
		t.Errorf("Request to = %v", captured.To)
	}
	if captured.Subject != "Weekly Trends" {
		t.Errorf("Request subject = %q", captured.Subject)
	}
	if captured.From != "Trendletter <hello@example.com>" {
		t.Errorf("Request from = %q", captured.From)
	}
}

func TestSend_ProviderErrorSimulates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	d := NewDispatcher("test-key", "hello@example.com", WithEndpoint(server.URL))
	result := d.Send(context.Background(), "reader@example.com", "Subject", "<p>hi</p>")

	if !result.Delivered || !result.Simulated {
		t.Errorf("Provider errors must degrade to simulation, got %+v", result)
	}
}

func TestSend_UnreachableProviderSimulates(t *testing.T) {
	d := NewDispatcher("test-key", "hello@example.com", WithEndpoint("http://127.0.0.1:1"))
	result := d.Send(context.Background(), "reader@example.com", "Subject", "<p>hi</p>")

	if !result.Delivered || !result.Simulated {
		t.Errorf("Unreachable provider must degrade to simulation, got %+v", result)
	}
}

func TestStatus(t *testing.T) {
	real := NewDispatcher("key", "hello@example.com").Status()
	if !real.HasAPIKey || real.Mode != "real" || !real.Available {
		t.Errorf("Status with key = %+v", real)
	}

	sim := NewDispatcher("", "hello@example.com").Status()
	if sim.HasAPIKey || sim.Mode != "simulation" || sim.Available {
		t.Errorf("Status without key = %+v", sim)
	}
	if sim.Service != "Resend" {
		t.Errorf("Service = %q", sim.Service)
	}
}

func TestFormatFrom(t *testing.T) {
	if got := FormatFrom("Trendletter", "hello@example.com"); got != "Trendletter <hello@example.com>" {
		t.Errorf("FormatFrom = %q", got)
	}
	if got := FormatFrom("", "hello@example.com"); got != "hello@example.com" {
		t.Errorf("FormatFrom without name = %q", got)
	}
}

func TestRenderNewsletterHTML(t *testing.T) {
	newsletter := &core.Newsletter{
		Title:    "🎵 Music & Artists Trends - Week of Jun 2",
		Subtitle: "Latest insights in Music & Artists",
		Articles: []core.Article{
			{
				Title:    "Streaming Reshapes Discovery",
				Body:     "Paragraph one.\n\nParagraph two.",
				Category: "Music & Artists",
				Excerpt:  "Paragraph one.",
				ReadTime: "2 min read",
				Trending: true,
				Tags:     []string{"artists", "trending"},
			},
		},
	}

	html, err := RenderNewsletterHTML(newsletter, "Ada")
	if err != nil {
		t.Fatalf("RenderNewsletterHTML failed: %v", err)
	}
	for _, want := range []string{"Music & Artists Trends", "Ada", "Streaming Reshapes Discovery", "2 min read", "#artists"} {
		if !strings.Contains(html, want) {
			t.Errorf("Rendered HTML missing %q", want)
		}
	}

	anon, err := RenderNewsletterHTML(newsletter, "")
	if err != nil {
		t.Fatalf("RenderNewsletterHTML failed: %v", err)
	}
	if !strings.Contains(anon, "Newsletter Subscriber") {
		t.Error("Empty recipient name should fall back to Newsletter Subscriber")
	}
}
