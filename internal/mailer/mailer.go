// Package mailer renders and dispatches transactional email. Delivery is
// best effort: providers log failures and never return them to callers,
// so a broken email pipeline cannot block invite issuance.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
)

// Mailer dispatches a rendered email to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string)
}

// InviteEmail holds everything the invite template needs.
type InviteEmail struct {
	InviterName      string
	OrganizationName string
	Role             string
	AcceptURL        string
}

var inviteTmpl = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
    <h2>You're invited to {{.OrganizationName}}</h2>
    <p>{{.InviterName}} has invited you to join {{.OrganizationName}} on
    CarbonPath as a <strong>{{.Role}}</strong>.</p>
    <p>
      <a href="{{.AcceptURL}}"
         style="display: inline-block; padding: 10px 20px; background: #166534; color: #ffffff; text-decoration: none; border-radius: 6px;">
        Accept invitation
      </a>
    </p>
    <p>This invitation expires in 7 days. If you weren't expecting it,
    you can ignore this email.</p>
  </body>
</html>
`))

// RenderInvite produces the subject and HTML body for an invite email.
// The accept link points at the frontend accept page with the raw token
// as a query parameter.
func RenderInvite(siteBaseURL, token string, email InviteEmail) (subject, html string, err error) {
	email.AcceptURL = fmt.Sprintf("%s/accept-invite?token=%s", siteBaseURL, url.QueryEscape(token))

	var buf bytes.Buffer
	if err := inviteTmpl.Execute(&buf, email); err != nil {
		return "", "", fmt.Errorf("render invite email: %w", err)
	}

	subject = fmt.Sprintf("You're invited to join %s on CarbonPath", email.OrganizationName)
	return subject, buf.String(), nil
}
