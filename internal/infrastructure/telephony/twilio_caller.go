package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atia-health/atia-backend/pkg/config"
)

const defaultBaseURL = "https://api.twilio.com"

// TwilioCaller places voice calls through the Twilio REST API. The spoken
// message is carried as inline TwiML so no callback endpoint is needed.
type TwilioCaller struct {
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
	baseURL    string
}

// NewTwilioCaller creates a new Twilio voice caller
func NewTwilioCaller(cfg *config.TwilioConfig) (*TwilioCaller, error) {
	if cfg == nil || cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER must be set")
	}

	return &TwilioCaller{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: defaultBaseURL,
	}, nil
}

type callResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

var twimlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// PlaceCall dials `to` and speaks `message` in Brazilian Portuguese.
func (t *TwilioCaller) PlaceCall(ctx context.Context, to, message string) (string, error) {
	twiml := fmt.Sprintf(`<Response><Say language="pt-BR">%s</Say></Response>`, twimlEscaper.Replace(message))

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.fromNumber)
	form.Set("Twiml", twiml)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", t.baseURL, t.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create call request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read call response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("Twilio API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed callResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal call response: %w", err)
	}
	if parsed.SID == "" {
		return "", fmt.Errorf("no call SID in response")
	}

	return parsed.SID, nil
}
