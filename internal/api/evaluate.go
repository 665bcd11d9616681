package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/evaluator"
)

// EvaluateHandler exposes the outcome, score and timeout rules directly.
// It holds no session state.
type EvaluateHandler struct {
	now func() time.Time
}

// NewEvaluateHandler creates a new evaluate handler. now defaults to time.Now.
func NewEvaluateHandler(now func() time.Time) *EvaluateHandler {
	if now == nil {
		now = time.Now
	}
	return &EvaluateHandler{now: now}
}

type outcomeRequest struct {
	Reply         string  `json:"reply"`
	UserMessage   string  `json:"user_message"`
	InterestLevel float64 `json:"interest_level"`
}

type scoreRequest struct {
	WordCount      int            `json:"word_count"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
	MessageCount   int            `json:"message_count"`
	InterestLevel  float64        `json:"interest_level"`
	Outcome        domain.Outcome `json:"outcome"`
}

type expiredRequest struct {
	StartedAt time.Time  `json:"started_at"`
	Now       *time.Time `json:"now,omitempty"`
}

// RegisterRoutes registers evaluation routes.
func (h *EvaluateHandler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluate", func(r chi.Router) {
		r.Post("/outcome", h.Outcome)
		r.Post("/score", h.Score)
		r.Post("/expired", h.Expired)
	})
}

// Outcome classifies a persona reply against the player's prior message.
func (h *EvaluateHandler) Outcome(w http.ResponseWriter, r *http.Request) {
	var req outcomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	JSON(w, http.StatusOK, evaluator.Classify(req.Reply, req.UserMessage, domain.ClampInterest(req.InterestLevel)))
}

// Score computes a rizz index from session metrics.
func (h *EvaluateHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.WordCount < 0 || req.MessageCount < 0 || req.ElapsedSeconds < 0 {
		Error(w, http.StatusBadRequest, "counts and elapsed_seconds must not be negative")
		return
	}
	JSON(w, http.StatusOK, evaluator.ComputeScore(
		req.WordCount, req.ElapsedSeconds, req.MessageCount,
		domain.ClampInterest(req.InterestLevel), req.Outcome,
	))
}

// Expired reports whether a session started at started_at has run out of time.
func (h *EvaluateHandler) Expired(w http.ResponseWriter, r *http.Request) {
	var req expiredRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.StartedAt.IsZero() {
		Error(w, http.StatusBadRequest, "started_at is required")
		return
	}
	now := h.now()
	if req.Now != nil {
		now = *req.Now
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"expired":           evaluator.IsExpired(req.StartedAt, now),
		"remaining_seconds": evaluator.RemainingSeconds(req.StartedAt, now),
	})
}
