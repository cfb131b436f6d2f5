package main

import (
	"context"
	"log"
	"net/http"

	"github.com/frn-eng/intake-agent/internal/adapters/docxrender"
	httpadapter "github.com/frn-eng/intake-agent/internal/adapters/http"
	"github.com/frn-eng/intake-agent/internal/adapters/mail"
	"github.com/frn-eng/intake-agent/internal/adapters/rewrite"
	"github.com/frn-eng/intake-agent/internal/adapters/speech"
	filestore "github.com/frn-eng/intake-agent/internal/adapters/storage/file"
	firestorestore "github.com/frn-eng/intake-agent/internal/adapters/storage/firestore"
	memstore "github.com/frn-eng/intake-agent/internal/adapters/storage/memory"
	"github.com/frn-eng/intake-agent/internal/adapters/webex"
	"github.com/frn-eng/intake-agent/internal/app/intake"
	reportsapp "github.com/frn-eng/intake-agent/internal/app/reports"
	"github.com/frn-eng/intake-agent/internal/config"
	"github.com/frn-eng/intake-agent/internal/domain"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	schedule, err := config.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		log.Fatalf("error loading field schedule: %v", err)
	}

	investigators := cfg.Investigators
	if len(investigators) == 0 {
		investigators = domain.DefaultInvestigators()
	}

	// Chat transport
	webexClient := webex.NewClient(cfg.WebexAPIBase, cfg.WebexBotToken, cfg.WebexBotEmail)

	// Speech-to-text
	var transcriber domain.Transcriber
	if cfg.RewriteBackend == "mock" {
		log.Println("[SPEECH] Using MOCK transcriber")
		transcriber = speech.NewMockTranscriber()
	} else {
		transcriber = speech.NewOpenAITranscriber(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.TranscribeModel)
	}

	// Rewrite backend: OpenAI, Vertex or mock
	var rewriter domain.Rewriter
	switch cfg.RewriteBackend {
	case "mock":
		log.Println("[REWRITE] Using MOCK rewriter")
		rewriter = rewrite.NewMockRewriter()
	case "vertex":
		log.Printf("[REWRITE] Using Vertex rewriter (project=%s)", cfg.GCPProjectID)
		rewriter, err = rewrite.NewVertexRewriter(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.RewriteModel)
		if err != nil {
			log.Fatalf("error initializing Vertex rewriter: %v", err)
		}
	default:
		log.Println("[REWRITE] Using OpenAI rewriter")
		rewriter = rewrite.NewOpenAIRewriter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.RewriteModel)
	}

	// Storage: memory, file or Firestore
	var sessionStore domain.SessionStore
	var reportStore domain.ReportStore

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}

		// 1 store, implements 2 interfaces
		sessionStore = fsStore
		reportStore = fsStore

	case "file":
		log.Printf("[STORE] Using file storage (%s)", cfg.SessionsFile)
		fStore, err := filestore.NewSessionStore(cfg.SessionsFile)
		if err != nil {
			log.Fatalf("error initializing file store: %v", err)
		}
		sessionStore = fStore
		reportStore = memstore.NewReportStore()

	default:
		log.Println("[STORE] Using in-memory storage (sessions are lost on restart)")
		sessionStore = memstore.NewSessionStore()
		reportStore = memstore.NewReportStore()
	}

	renderer := docxrender.NewRenderer(cfg.TemplateFile, cfg.OutputDir)
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailSender, cfg.EmailPassword)

	// Intake state machine
	svc := intake.NewService(intake.Deps{
		Schedule:      schedule,
		Investigators: investigators,
		Store:         sessionStore,
		Messenger:     webexClient,
		Fetcher:       webexClient,
		Transcriber:   transcriber,
		Rewriter:      rewriter,
		Renderer:      renderer,
		Mailer:        mailer,
		Reports:       reportStore,
		BotEmail:      cfg.WebexBotEmail,
		MailRecipient: cfg.EmailReceiver,
		ResetKeyword:  cfg.ResetKeyword,
		CallTimeout:   cfg.CollaboratorTimeout,
	})

	reportsSvc := reportsapp.NewService(reportStore)

	// HTTP server
	handler := httpadapter.NewServer(svc, reportsSvc, webexClient, cfg.WebexWebhookSecret)

	addr := ":" + cfg.Port
	log.Println("Intake agent listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
