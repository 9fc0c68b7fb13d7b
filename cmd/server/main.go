package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/mariaherliana/invoice-creation/internal/config"
	"github.com/mariaherliana/invoice-creation/internal/email/noop"
	"github.com/mariaherliana/invoice-creation/internal/email/ses"
	"github.com/mariaherliana/invoice-creation/internal/handler"
	"github.com/mariaherliana/invoice-creation/internal/logger"
	"github.com/mariaherliana/invoice-creation/internal/port"
	"github.com/mariaherliana/invoice-creation/internal/render/pdf"
	"github.com/mariaherliana/invoice-creation/internal/repository/postgres"
	"github.com/mariaherliana/invoice-creation/internal/router"
	"github.com/mariaherliana/invoice-creation/internal/service"
	s3storage "github.com/mariaherliana/invoice-creation/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.Log)
	mainLog := logger.WithComponent("main")

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Ledger and blob store
	ledger := postgres.NewDocumentLedgerRepo(db)
	blobStore, err := s3storage.NewBlobStore(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}

	// Email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Services and handlers
	documentSvc := service.NewDocumentService(ledger, blobStore, pdf.NewRenderer(), emailSender, &cfg.S3, &cfg.Doc)
	documentH := handler.NewDocumentHandler(documentSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, documentH, healthH)

	mainLog.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
