package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"trendletter/internal/core"
	"trendletter/internal/subscription"
)

// Health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if _, err := s.store.GetStats(r.Context()); err != nil {
		checks["database"] = "error"
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Checks: checks,
	})
}

// SubscribeResponse is the JSON payload for POST /api/subscribe. The
// "sent" vs "already-sent" distinction lives in the status field; both
// outcomes are 200s.
type SubscribeResponse struct {
	Success    bool              `json:"success"`
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	User       *core.User        `json:"user,omitempty"`
	Newsletter NewsletterSummary `json:"newsletter"`
}

// NewsletterSummary is the trimmed newsletter view returned by the API.
type NewsletterSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle,omitempty"`
	WeekOf     string   `json:"week_of"`
	Categories []string `json:"categories"`
	Articles   int      `json:"articles"`
}

func summarize(n *core.Newsletter) NewsletterSummary {
	return NewsletterSummary{
		ID:         n.ID,
		Title:      n.Title,
		Subtitle:   n.Subtitle,
		WeekOf:     n.WeekOf.Format("2006-01-02"),
		Categories: n.Categories,
		Articles:   len(n.Articles),
	}
}

// handleSubscribe handles POST /api/subscribe
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscription.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "body", "invalid JSON body")
		return
	}

	result, err := s.coordinator.Subscribe(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	message := "Subscription confirmed! This week's newsletter is on its way."
	if result.Status == subscription.StatusAlreadySent {
		message = "Subscription confirmed! You've already received this week's newsletter."
	}

	s.respondJSON(w, http.StatusOK, SubscribeResponse{
		Success:    true,
		Status:     result.Status,
		Message:    message,
		User:       result.User,
		Newsletter: summarize(result.Newsletter),
	})
}

// GenerateResponse is the JSON payload for POST /api/generate.
type GenerateResponse struct {
	Success    bool              `json:"success"`
	Created    bool              `json:"created"`
	Newsletter NewsletterSummary `json:"newsletter"`
	Articles   []core.Article    `json:"articles"`
}

// handleGenerate handles POST /api/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req subscription.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "body", "invalid JSON body")
		return
	}

	result, err := s.coordinator.Generate(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, GenerateResponse{
		Success:    true,
		Created:    result.Created,
		Newsletter: summarize(result.Newsletter),
		Articles:   result.Newsletter.Articles,
	})
}

// handleEmailStatus handles GET /api/email-status
func (s *Server) handleEmailStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.dispatcher.Status())
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "", "failed to read store stats")
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

// ErrorResponse is the JSON error payload. Field is set for validation
// failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		s.respondError(w, http.StatusBadRequest, ve.Field, ve.Message)
		return
	}
	s.log.Error("Request failed", "error", err)
	s.respondError(w, http.StatusInternalServerError, "", "internal server error")
}

func (s *Server) respondError(w http.ResponseWriter, status int, field, message string) {
	s.respondJSON(w, status, ErrorResponse{Success: false, Field: field, Message: message})
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err)
	}
}
