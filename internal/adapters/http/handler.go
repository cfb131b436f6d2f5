package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/frn-eng/intake-agent/internal/adapters/webex"
	"github.com/frn-eng/intake-agent/internal/app/intake"
	"github.com/frn-eng/intake-agent/internal/app/reports"
	"github.com/frn-eng/intake-agent/internal/domain"
	"github.com/frn-eng/intake-agent/internal/observability"
)

// EventResolver turns a webhook envelope into a normalized inbound event.
// Implemented by the webex client; faked in tests.
type EventResolver interface {
	Resolve(ctx context.Context, p webex.WebhookPayload) (domain.InboundEvent, error)
}

type Server struct {
	svc           *intake.Service
	reportsSvc    *reports.Service
	resolver      EventResolver
	webhookSecret string
}

// NewServer wires the webhook surface. webhookSecret empty disables
// signature verification.
func NewServer(svc *intake.Service, reportsSvc *reports.Service, resolver EventResolver, webhookSecret string) http.Handler {
	s := &Server{
		svc:           svc,
		reportsSvc:    reportsSvc,
		resolver:      resolver,
		webhookSecret: webhookSecret,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/reports", s.handleReports)

	return chainMiddlewares(mux, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		badRequest(w, "unreadable body")
		return
	}

	if s.webhookSecret != "" {
		sig := r.Header.Get("X-Spark-Signature")
		if err := webex.VerifySignature(s.webhookSecret, sig, body); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
			return
		}
	}

	payload, err := webex.ParseWebhookPayload(body)
	if err != nil {
		badRequest(w, "invalid webhook payload")
		return
	}

	log := observability.LoggerFromContext(r.Context())

	ev, err := s.resolver.Resolve(r.Context(), payload)
	if err != nil {
		// Detail lookup failed; Webex will redeliver and the dedupe guard
		// absorbs any overlap.
		log.Error("failed to resolve webhook event", "error", err, "resource", payload.Resource)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if err := s.svc.HandleEvent(r.Context(), ev); err != nil {
		// The user was already told in-room when the error is retryable;
		// answer 200 either way so the transport does not hammer retries.
		if domain.IsRetryable(err) {
			log.Warn("event handling failed (retryable)", "error", err, "event_id", ev.ID)
		} else {
			log.Error("event handling failed", "error", err, "event_id", ev.ID)
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type reportResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Investigator string    `json:"investigator"`
	FilePath     string    `json:"file_path"`
	Recipient    string    `json:"recipient"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id is required")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, "limit must be an integer")
			return
		}
		limit = n
	}

	recs, err := s.reportsSvc.ListByUser(r.Context(), domain.UserID(userID), limit)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]reportResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, reportResponse{
			ID:           string(rec.ID),
			UserID:       string(rec.UserID),
			Investigator: rec.Investigator,
			FilePath:     rec.FilePath,
			Recipient:    rec.Recipient,
			CreatedAt:    rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"reports": out})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
