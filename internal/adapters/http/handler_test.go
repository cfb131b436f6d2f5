package httpadapter_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/frn-eng/intake-agent/internal/adapters/http"
	"github.com/frn-eng/intake-agent/internal/adapters/rewrite"
	"github.com/frn-eng/intake-agent/internal/adapters/storage/memory"
	"github.com/frn-eng/intake-agent/internal/adapters/webex"
	"github.com/frn-eng/intake-agent/internal/app/intake"
	reportsapp "github.com/frn-eng/intake-agent/internal/app/reports"
	"github.com/frn-eng/intake-agent/internal/domain"
)

type fakeMessenger struct {
	texts int
	cards int
}

func (m *fakeMessenger) SendText(ctx context.Context, roomID domain.RoomID, markdown string) error {
	m.texts++
	return nil
}

func (m *fakeMessenger) SendCard(ctx context.Context, roomID domain.RoomID, prompt string, choices []string) error {
	m.cards++
	return nil
}

type fakeFetcher struct{}

func (f *fakeFetcher) FetchFile(ctx context.Context, fileURL string) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("audio")), "voice.mp4", nil
}

type fakeTranscriber struct{}

func (t *fakeTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	return "transcript", nil
}

type fakeRenderer struct{}

func (r *fakeRenderer) Render(ctx context.Context, values map[domain.FieldID]string) (string, error) {
	return "/tmp/report.docx", nil
}

type fakeMailer struct{}

func (m *fakeMailer) Send(ctx context.Context, recipient, subject, body, attachmentPath string) error {
	return nil
}

// fakeResolver maps webhook data ids to preset events, standing in for the
// Webex detail lookups.
type fakeResolver struct {
	events map[string]domain.InboundEvent
}

func (r *fakeResolver) Resolve(ctx context.Context, p webex.WebhookPayload) (domain.InboundEvent, error) {
	ev, ok := r.events[p.Data.ID]
	if !ok {
		return domain.InboundEvent{}, fmt.Errorf("no detail for %s", p.Data.ID)
	}
	return ev, nil
}

func newTestServer(t *testing.T, secret string) (http.Handler, *fakeMessenger, *memory.ReportStore, *fakeResolver) {
	t.Helper()

	schedule, err := domain.NewSchedule([]domain.Field{
		{ID: "Date", Prompt: "send date", Label: "date"},
	})
	if err != nil {
		t.Fatalf("NewSchedule failed: %v", err)
	}

	messenger := &fakeMessenger{}
	reportStore := memory.NewReportStore()

	svc := intake.NewService(intake.Deps{
		Schedule:      schedule,
		Investigators: []string{"InspectorX"},
		Store:         memory.NewSessionStore(),
		Messenger:     messenger,
		Fetcher:       &fakeFetcher{},
		Transcriber:   &fakeTranscriber{},
		Rewriter:      rewrite.NewMockRewriter(),
		Renderer:      &fakeRenderer{},
		Mailer:        &fakeMailer{},
		Reports:       reportStore,
		BotEmail:      "bot@webex.bot",
		MailRecipient: "reports@example.com",
	})

	resolver := &fakeResolver{events: map[string]domain.InboundEvent{}}
	srv := httpadapter.NewServer(svc, reportsapp.NewService(reportStore), resolver, secret)
	return srv, messenger, reportStore, resolver
}

func webhookBody(resource, id string) []byte {
	b, _ := json.Marshal(map[string]any{
		"resource": resource,
		"data": map[string]any{
			"id":       id,
			"roomId":   "room-1",
			"personId": "person-1",
		},
	})
	return b
}

func TestHealthz(t *testing.T) {
	srv, _, _, _ := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestWebhookDrivesIntake(t *testing.T) {
	srv, messenger, _, resolver := newTestServer(t, "")

	resolver.events["msg-1"] = domain.InboundEvent{
		ID:     "msg-1",
		Kind:   domain.EventMessage,
		UserID: "person-1",
		RoomID: "room-1",
		Text:   "hello",
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(webhookBody("messages", "msg-1")))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	// First contact: welcome text plus the investigator card.
	if messenger.texts != 1 || messenger.cards != 1 {
		t.Fatalf("expected welcome+card, got texts=%d cards=%d", messenger.texts, messenger.cards)
	}
}

func TestWebhookRejectsInvalidPayload(t *testing.T) {
	srv, _, _, _ := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestWebhookSignatureEnforced(t *testing.T) {
	srv, _, _, resolver := newTestServer(t, "s3cret")

	resolver.events["msg-1"] = domain.InboundEvent{
		ID: "msg-1", Kind: domain.EventMessage, UserID: "person-1", RoomID: "room-1",
	}
	body := webhookBody("messages", "msg-1")

	// No signature.
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without signature, got %d", w.Code)
	}

	// Valid signature.
	mac := hmac.New(sha1.New, []byte("s3cret"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	req = httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("X-Spark-Signature", sig)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid signature, got %d", w.Code)
	}
}

func TestWebhookAnswersOKWhenResolverFails(t *testing.T) {
	srv, messenger, _, _ := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(webhookBody("messages", "unknown")))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 even when lookup fails, got %d", w.Code)
	}
	if messenger.texts != 0 {
		t.Fatalf("no outbound message expected, got %d", messenger.texts)
	}
}

func TestReportsEndpoint(t *testing.T) {
	srv, _, reportStore, _ := newTestServer(t, "")

	err := reportStore.AppendReport(context.Background(), &domain.ReportRecord{
		UserID:       "person-1",
		Investigator: "InspectorX",
		FilePath:     "/tmp/report.docx",
		Recipient:    "reports@example.com",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("AppendReport failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/reports?user_id=person-1", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Reports []struct {
			Investigator string `json:"investigator"`
		} `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Reports) != 1 || resp.Reports[0].Investigator != "InspectorX" {
		t.Fatalf("unexpected reports payload: %s", w.Body.String())
	}
}

func TestReportsRequiresUserID(t *testing.T) {
	srv, _, _, _ := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
