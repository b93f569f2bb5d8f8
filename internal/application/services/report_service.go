package services

import (
	"context"
	"strings"
	"time"

	"github.com/atia-health/atia-backend/internal/domain/entities"
	"github.com/atia-health/atia-backend/internal/domain/providers"
	"github.com/atia-health/atia-backend/internal/infrastructure/observability"
	"github.com/atia-health/atia-backend/internal/infrastructure/staging"
	"github.com/atia-health/atia-backend/pkg/retry"
)

// ReportService dispatches the rendered triage report. Rendering is delegated
// to a remote service; the fetched artifact is staged locally and delivered as
// a WhatsApp document link. Every failure degrades and logs; a dispatch
// problem never reaches the HTTP response.
type ReportService struct {
	renderer      providers.ReportRenderer
	sender        providers.MessageSender
	store         *staging.Store
	publicBaseURL string
	fetchRetry    retry.Config
}

// NewReportService creates a new report service. A nil renderer disables
// report dispatch entirely; a nil sender stages the report without delivery.
func NewReportService(renderer providers.ReportRenderer, sender providers.MessageSender, store *staging.Store, publicBaseURL string) *ReportService {
	return &ReportService{
		renderer:      renderer,
		sender:        sender,
		store:         store,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		fetchRetry:    retry.DefaultConfig(),
	}
}

// Dispatch renders, stages and delivers the report for one triage result.
// Returns the staged report metadata, or nil when no report could be produced.
func (s *ReportService) Dispatch(ctx context.Context, record *entities.IntakeRecord, result *entities.TriageResult) *entities.Report {
	logger := observability.LoggerFromContext(ctx)

	if s.renderer == nil || s.store == nil {
		logger.Debug().Msg("Report rendering not configured, dispatch skipped")
		return nil
	}

	report := s.renderAndStage(ctx, record, result)
	if report == nil {
		// the patient still gets the triage text even without a document
		s.deliverText(ctx, record, result)
		return nil
	}

	s.deliverDocument(ctx, record, report)
	return report
}

func (s *ReportService) renderAndStage(ctx context.Context, record *entities.IntakeRecord, result *entities.TriageResult) *entities.Report {
	logger := observability.LoggerFromContext(ctx)

	location, err := s.renderer.Render(ctx, record, result.Diagnostico)
	if err != nil {
		logger.Error().Err(err).Msg("Remote report render failed")
		return nil
	}

	// artifact availability can lag the render acknowledgement
	var data []byte
	err = retry.Do(ctx, s.fetchRetry, func() error {
		var fetchErr error
		data, fetchErr = s.renderer.Fetch(ctx, location)
		return fetchErr
	})
	if err != nil {
		logger.Error().Err(err).Str("location", location).Msg("Report artifact fetch failed")
		return nil
	}

	filename, err := s.store.Put(data)
	if err != nil {
		logger.Error().Err(err).Msg("Report staging failed")
		return nil
	}

	return &entities.Report{
		Filename:    filename,
		Path:        s.store.Dir() + "/" + filename,
		DownloadURL: s.publicBaseURL + "/baixar/" + filename,
		CreatedAt:   time.Now(),
	}
}

func (s *ReportService) deliverDocument(ctx context.Context, record *entities.IntakeRecord, report *entities.Report) {
	logger := observability.LoggerFromContext(ctx)

	if s.sender == nil || strings.TrimSpace(record.Telefone) == "" {
		logger.Debug().Msg("No delivery contact, report staged for download only")
		return
	}

	caption := "Relatório de triagem ATIA de " + record.Nome
	messageID, err := s.sender.SendDocument(ctx, record.Telefone, report.DownloadURL, caption, report.Filename)
	if err != nil {
		logger.Error().Err(err).Msg("Report document delivery failed")
		return
	}

	logger.Info().Str("message_id", messageID).Str("filename", report.Filename).Msg("Report delivered")
}

func (s *ReportService) deliverText(ctx context.Context, record *entities.IntakeRecord, result *entities.TriageResult) {
	logger := observability.LoggerFromContext(ctx)

	if s.sender == nil || strings.TrimSpace(record.Telefone) == "" {
		return
	}

	if _, err := s.sender.SendText(ctx, record.Telefone, result.Diagnostico); err != nil {
		logger.Error().Err(err).Msg("Text fallback delivery failed")
		return
	}

	logger.Info().Msg("Report unavailable, triage text delivered instead")
}
