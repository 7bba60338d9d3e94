package main

import (
	"fmt"
	"log"

	"snapquote/internal/config"
	noopmail "snapquote/internal/email/noop"
	sesmail "snapquote/internal/email/ses"
	"snapquote/internal/extraction/ocrhttp"
	"snapquote/internal/handler"
	"snapquote/internal/matcher"
	"snapquote/internal/port"
	"snapquote/internal/repository/postgres"
	"snapquote/internal/router"
	"snapquote/internal/service"
	s3storage "snapquote/internal/storage/s3"
)

// @title SnapQuote API
// @version 1.0
// @description Price-list photo to quotation service.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize extraction and matching clients
	extractor := ocrhttp.NewClient(&cfg.OCR)
	catalogMatcher := matcher.NewClient(&cfg.OCR)

	// Initialize email delivery
	var sender port.QuotationSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = sesmail.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noopmail.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	sessionSvc := service.NewSessionService(extractor, catalogMatcher, s3Client, sessionRepo, sender, &cfg.S3, &cfg.Quote)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, sessionH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
