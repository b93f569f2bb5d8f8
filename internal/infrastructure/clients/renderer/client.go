package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atia-health/atia-backend/internal/domain/entities"
)

// HTTPClient talks to the remote document-rendering service. The service
// accepts the full intake plus diagnosis and answers with a location
// reference from which the rendered artifact can be fetched.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a renderer client for the given base URL.
func NewHTTPClient(baseURL string) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, errors.New("renderer base url is required")
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type renderRequest struct {
	Paciente    *entities.IntakeRecord `json:"paciente"`
	Diagnostico string                 `json:"diagnostico"`
}

type renderResponse struct {
	Location string `json:"location"`
}

// Render forwards the record and diagnosis and returns the artifact location.
func (c *HTTPClient) Render(ctx context.Context, record *entities.IntakeRecord, diagnostico string) (string, error) {
	if record == nil {
		return "", errors.New("intake record is required")
	}

	body, err := json.Marshal(renderRequest{Paciente: record, Diagnostico: diagnostico})
	if err != nil {
		return "", fmt.Errorf("failed to marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("renderer returned status %d", resp.StatusCode)
	}

	var parsed renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse render response: %w", err)
	}
	if parsed.Location == "" {
		return "", errors.New("render response missing location")
	}

	return parsed.Location, nil
}

// Fetch retrieves the rendered artifact bytes. Locations may be absolute URLs
// or paths relative to the renderer base URL.
func (c *HTTPClient) Fetch(ctx context.Context, location string) ([]byte, error) {
	url := location
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		url = c.baseURL + "/" + strings.TrimLeft(location, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artifact fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artifact fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("artifact body is empty")
	}

	return data, nil
}
