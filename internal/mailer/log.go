package mailer

import (
	"context"

	"github.com/carbonpath/csrd/pkg/slogx"
)

// LogMailer writes email to the log instead of delivering it. Used in
// dev when no provider API key is configured.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, html string) {
	slogx.FromContext(ctx).Info("mailer: email logged (no provider configured)",
		"to", to,
		"subject", subject,
		"bytes", len(html),
	)
}
