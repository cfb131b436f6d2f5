package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frn-eng/intake-agent/internal/domain"
	"github.com/frn-eng/intake-agent/internal/observability"
)

// User-facing texts. The bot speaks Arabic, like the reports it produces.
const (
	msgWelcome       = "👋 مرحباً بك في بوت إعداد تقارير الفحص الخاص بقسم الهندسة الجنائية."
	msgPickName      = "🧑‍✈️ اختر اسم الفاحص:"
	msgUnknownChoice = "⚠️ الاسم المختار غير معروف، يرجى الاختيار من القائمة."
	msgVoiceReminder = "🎙️ الرجاء إرسال تسجيل صوتي."
	msgPreparing     = "✅ تم استلام جميع البيانات. جاري إعداد التقرير..."
	msgRetry         = "⚠️ حدث خطأ أثناء المعالجة، يرجى إعادة إرسال التسجيل الصوتي."
	msgResetDone     = "🔄 تم إعادة ضبط الجلسة. أرسل أي رسالة للبدء من جديد."

	mailSubject = "تقرير فحص تلقائي"
)

// Deps bundles the collaborators the intake service drives.
type Deps struct {
	Schedule      *domain.Schedule
	Investigators []string

	Store       domain.SessionStore
	Messenger   domain.Messenger
	Fetcher     domain.AudioFetcher
	Transcriber domain.Transcriber
	Rewriter    domain.Rewriter
	Renderer    domain.Renderer
	Mailer      domain.Mailer
	Reports     domain.ReportStore

	BotEmail      string
	MailRecipient string
	ResetKeyword  string
	CallTimeout   time.Duration
}

// Service is the intake session state machine. One inbound event moves one
// session by at most one step; per-user serialization is enforced here.
type Service struct {
	schedule    *domain.Schedule
	roster      map[string]bool
	rosterOrder []string // card order

	store       domain.SessionStore
	messenger   domain.Messenger
	fetcher     domain.AudioFetcher
	transcriber domain.Transcriber
	rewriter    domain.Rewriter
	renderer    domain.Renderer
	mailer      domain.Mailer
	reports     domain.ReportStore

	botEmail     string
	recipient    string
	resetKeyword string
	callTimeout  time.Duration

	locks *keyedMutex
	now   func() time.Time
}

func NewService(deps Deps) *Service {
	if deps.ResetKeyword == "" {
		deps.ResetKeyword = "/reset"
	}
	if deps.CallTimeout <= 0 {
		deps.CallTimeout = 60 * time.Second
	}

	roster := make(map[string]bool, len(deps.Investigators))
	for _, name := range deps.Investigators {
		roster[name] = true
	}

	return &Service{
		schedule:     deps.Schedule,
		roster:       roster,
		rosterOrder:  deps.Investigators,
		store:        deps.Store,
		messenger:    deps.Messenger,
		fetcher:      deps.Fetcher,
		transcriber:  deps.Transcriber,
		rewriter:     deps.Rewriter,
		renderer:     deps.Renderer,
		mailer:       deps.Mailer,
		reports:      deps.Reports,
		botEmail:     deps.BotEmail,
		recipient:    deps.MailRecipient,
		resetKeyword: deps.ResetKeyword,
		callTimeout:  deps.CallTimeout,
		locks:        newKeyedMutex(),
		now:          time.Now,
	}
}

// Investigators returns the selection roster in card order.
func (s *Service) Investigators() []string {
	return s.rosterOrder
}

// HandleEvent advances the user's session by one inbound event.
//
// Guarantees:
//   - at-most-one in-flight mutation per user id
//   - a duplicate event id never advances the schedule twice
//   - no field commits until its whole pipeline succeeded
func (s *Service) HandleEvent(ctx context.Context, ev domain.InboundEvent) error {
	if ev.AuthorEmail != "" && strings.EqualFold(ev.AuthorEmail, s.botEmail) {
		return nil // our own outbound message echoed back
	}

	unlock := s.locks.Lock(ev.UserID)
	defer unlock()

	log := observability.EventLogger(ctx, ev)

	if ev.Kind == domain.EventMessage && s.isReset(ev.Text) {
		return s.handleReset(ctx, log, ev)
	}

	sess, existed, err := s.store.GetOrCreate(ctx, ev.UserID, ev.RoomID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	if ev.ID != "" && ev.ID == sess.LastEventID {
		log.Info("duplicate event absorbed")
		return nil
	}

	if !existed {
		// First contact. Even a voice note sent before any session exists
		// lands here: greet and present the card instead of failing.
		log.Info("new session created")
		return s.greet(ctx, sess, ev)
	}

	switch sess.State {
	case domain.StateAwaitingSelection:
		return s.handleSelection(ctx, log, sess, ev)
	case domain.StateAwaitingField:
		return s.handleField(ctx, log, sess, ev)
	default:
		return fmt.Errorf("session %s in unknown state %q", sess.UserID, sess.State)
	}
}

// ─────────────────────────────────────────────
// Transitions
// ─────────────────────────────────────────────

func (s *Service) handleReset(ctx context.Context, log *slog.Logger, ev domain.InboundEvent) error {
	if err := s.store.Delete(ctx, ev.UserID); err != nil {
		return fmt.Errorf("resetting session: %w", err)
	}
	log.Info("session reset by user")
	return s.sendText(ctx, ev.RoomID, msgResetDone)
}

func (s *Service) greet(ctx context.Context, sess *domain.Session, ev domain.InboundEvent) error {
	sess.LastEventID = ev.ID
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("saving new session: %w", err)
	}

	if err := s.sendText(ctx, ev.RoomID, msgWelcome); err != nil {
		return err
	}
	return s.sendCard(ctx, ev.RoomID)
}

func (s *Service) handleSelection(ctx context.Context, log *slog.Logger, sess *domain.Session, ev domain.InboundEvent) error {
	if ev.Kind != domain.EventAttachmentAction {
		// Plain message (or a premature voice note) while the card is
		// pending: show the card again, no state change.
		if err := s.markHandled(ctx, sess, ev); err != nil {
			return err
		}
		return s.sendCard(ctx, ev.RoomID)
	}

	if !s.roster[ev.Selection] {
		log.Info("selection rejected", "selection", ev.Selection)
		if err := s.markHandled(ctx, sess, ev); err != nil {
			return err
		}
		if err := s.sendText(ctx, ev.RoomID, msgUnknownChoice); err != nil {
			return err
		}
		return s.sendCard(ctx, ev.RoomID)
	}

	sess.Values[domain.InvestigatorField] = ev.Selection
	sess.State = domain.StateAwaitingField
	sess.Position = 0
	sess.LastEventID = ev.ID
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("saving session after selection: %w", err)
	}

	log.Info("investigator selected", "selection", ev.Selection)

	first := s.schedule.Prompt(0)
	return s.sendText(ctx, ev.RoomID, fmt.Sprintf("🧑‍✈️ تم اختيار %s.\n%s", ev.Selection, first))
}

func (s *Service) handleField(ctx context.Context, log *slog.Logger, sess *domain.Session, ev domain.InboundEvent) error {
	if ev.Kind == domain.EventAttachmentAction {
		// Stale card submit after selection already happened: absorb.
		log.Info("stale selection ignored")
		return s.markHandled(ctx, sess, ev)
	}

	if !ev.HasAudio() {
		if err := s.markHandled(ctx, sess, ev); err != nil {
			return err
		}
		return s.sendText(ctx, ev.RoomID, msgVoiceReminder)
	}

	i := sess.Position
	if i >= s.schedule.Len() {
		// Positions past the schedule never persist; a session here is a bug.
		return fmt.Errorf("session %s at position %d beyond schedule", sess.UserID, i)
	}
	field := s.schedule.Field(i)

	// Only the first attachment counts; extras on the same message are ignored.
	polished, err := s.collectField(ctx, log, ev.FileURLs[0], field)
	if err != nil {
		// The field is NOT committed and the dedupe marker is NOT advanced,
		// so resending the same voice note retries cleanly.
		if sendErr := s.sendText(ctx, ev.RoomID, msgRetry); sendErr != nil {
			log.Error("failed to send retry notice", "error", sendErr)
		}
		return err
	}

	sess.Values[field.ID] = polished
	sess.Position = i + 1
	sess.LastEventID = ev.ID
	sess.UpdatedAt = s.now()

	if sess.Position == s.schedule.Len() {
		return s.complete(ctx, log, sess, ev)
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("saving session after field %s: %w", field.ID, err)
	}

	log.Info("field collected", "field", field.ID, "position", sess.Position)

	next := s.schedule.Prompt(sess.Position)
	return s.sendText(ctx, ev.RoomID, fmt.Sprintf("✅ تم تسجيل %s.\n%s", field.Label, next))
}

// complete renders and dispatches the report, archives a record, and removes
// the session. Nothing is persisted until mail delivery succeeded, so any
// failure leaves the stored session at the previous position and the user can
// resend the last voice note.
func (s *Service) complete(ctx context.Context, log *slog.Logger, sess *domain.Session, ev domain.InboundEvent) error {
	if err := s.sendText(ctx, ev.RoomID, msgPreparing); err != nil {
		log.Error("failed to send preparing notice", "error", err)
	}

	renderCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	path, err := s.renderer.Render(renderCtx, sess.Values)
	cancel()
	if err != nil {
		if sendErr := s.sendText(ctx, ev.RoomID, msgRetry); sendErr != nil {
			log.Error("failed to send retry notice", "error", sendErr)
		}
		return domain.Collaborator("render", err)
	}

	investigator := sess.Investigator()
	body := fmt.Sprintf("📎 يرجى مراجعة التقرير المرفق.\n\nمع تحيات فريق العمل، %s.", investigator)

	mailCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	err = s.mailer.Send(mailCtx, s.recipient, mailSubject, body, path)
	cancel()
	if err != nil {
		if sendErr := s.sendText(ctx, ev.RoomID, msgRetry); sendErr != nil {
			log.Error("failed to send retry notice", "error", sendErr)
		}
		return domain.Collaborator("mail", err)
	}

	if s.reports != nil {
		rec := &domain.ReportRecord{
			UserID:       sess.UserID,
			Investigator: investigator,
			FilePath:     path,
			Recipient:    s.recipient,
			CreatedAt:    s.now(),
		}
		if err := s.reports.AppendReport(ctx, rec); err != nil {
			// The report is already out the door; archiving is best effort.
			log.Error("failed to archive report record", "error", err)
		}
	}

	if err := s.store.Delete(ctx, sess.UserID); err != nil {
		return fmt.Errorf("removing completed session: %w", err)
	}

	log.Info("report dispatched", "investigator", investigator, "file", path)

	return s.sendText(ctx, ev.RoomID, fmt.Sprintf("📩 تم إرسال التقرير إلى %s", s.recipient))
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func (s *Service) isReset(text string) bool {
	t := strings.TrimSpace(text)
	return strings.EqualFold(t, s.resetKeyword) || t == "إعادة"
}

// markHandled records the dedupe marker for events that were answered but
// changed no schedule state (reminders, re-prompts, stale cards).
func (s *Service) markHandled(ctx context.Context, sess *domain.Session, ev domain.InboundEvent) error {
	sess.LastEventID = ev.ID
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("saving dedupe marker: %w", err)
	}
	return nil
}

func (s *Service) sendText(ctx context.Context, roomID domain.RoomID, markdown string) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if err := s.messenger.SendText(callCtx, roomID, markdown); err != nil {
		return domain.Collaborator("send message", err)
	}
	return nil
}

func (s *Service) sendCard(ctx context.Context, roomID domain.RoomID) error {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if err := s.messenger.SendCard(callCtx, roomID, msgPickName, s.rosterOrder); err != nil {
		return domain.Collaborator("send card", err)
	}
	return nil
}
