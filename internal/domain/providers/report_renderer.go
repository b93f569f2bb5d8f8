package providers

import (
	"context"

	"github.com/atia-health/atia-backend/internal/domain/entities"
)

// ReportRenderer is the remote document-rendering collaborator. Render hands
// the intake plus diagnosis over and returns a location reference; Fetch
// retrieves the rendered artifact bytes from that location.
type ReportRenderer interface {
	Render(ctx context.Context, record *entities.IntakeRecord, diagnostico string) (string, error)
	Fetch(ctx context.Context, location string) ([]byte, error)
}
