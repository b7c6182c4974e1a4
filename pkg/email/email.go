// Package email sends transactional mail.
//
// Services depend on the Sender interface; NewResendSender is the only
// implementation and is wired in main when RESEND_* settings are present.
package email

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/resend/resend-go/v3"
)

// Sender sends account emails.
type Sender interface {
	// SendWelcome greets a newly registered user.
	SendWelcome(ctx context.Context, toEmail, userName string) error
}

// emailClient is the part of the Resend SDK we use.
type emailClient interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendSender struct {
	emails    emailClient
	fromEmail string
	appURL    string
}

// NewResendSender returns a Sender backed by the Resend API.
// fromEmail must belong to a domain verified in Resend.
func NewResendSender(apiKey, fromEmail, appURL string) Sender {
	client := resend.NewClient(apiKey)
	return &resendSender{
		emails:    client.Emails,
		fromEmail: fromEmail,
		appURL:    strings.TrimRight(appURL, "/"),
	}
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:24px;background-color:#f4f4f5;font-family:Arial,Helvetica,sans-serif;">
  <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:32px;">
    <tr>
      <td>
        <h1 style="color:#111827;font-size:22px;margin:0 0 16px 0;">Welcome to Brick Depot, {{.UserName}}!</h1>
        <p style="color:#374151;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
          Your account is ready. Sign in to add, edit and organise your sets.
        </p>
        <a href="{{.LoginURL}}" style="background-color:#dc2626;color:#ffffff;text-decoration:none;padding:12px 28px;border-radius:6px;font-weight:600;">
          Sign in
        </a>
      </td>
    </tr>
  </table>
</body>
</html>`))

func (s *resendSender) SendWelcome(ctx context.Context, toEmail, userName string) error {
	var body strings.Builder
	err := welcomeTemplate.Execute(&body, struct {
		UserName string
		LoginURL string
	}{userName, s.appURL + "/login"})
	if err != nil {
		return fmt.Errorf("failed to render welcome email: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Brick Depot <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: "Welcome to Brick Depot",
		Html:    body.String(),
	}

	if _, err := s.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
