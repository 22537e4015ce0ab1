package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/carbonpath/csrd/pkg/slogx"
)

const defaultAPIURL = "https://api.resend.com/emails"

// HTTPMailer submits email through a Resend-style JSON API.
type HTTPMailer struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

// NewHTTPMailer builds a mailer against the default provider endpoint.
func NewHTTPMailer(apiKey, from string) *HTTPMailer {
	return &HTTPMailer{
		apiURL: defaultAPIURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts the email to the provider. Failures are logged and dropped.
func (m *HTTPMailer) Send(ctx context.Context, to, subject, html string) {
	log := slogx.FromContext(ctx)

	body, err := json.Marshal(sendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		log.Error("mailer: encode request", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		log.Error("mailer: build request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		log.Error("mailer: send", "to", to, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("mailer: provider rejected email",
			"to", to,
			"status", resp.StatusCode,
			"body", string(detail),
		)
		return
	}

	log.Info("mailer: email sent", "to", to, "subject", subject)
}
