// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ResetEmailData holds data for the password-reset email.
type ResetEmailData struct {
	SiteName  string
	ResetLink string
	ExpiresIn string // e.g. "15 minutes"
}

// BuildResetEmail creates a password-reset email with text and HTML
// bodies. The caller sets To.
func BuildResetEmail(data ResetEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: buildResetText(data),
		HTMLBody: buildResetHTML(data),
	}
}

func buildResetText(data ResetEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("A password reset was requested for your %s account.\n\n", data.SiteName))
	buf.WriteString("Open this link to choose a new password:\n")
	buf.WriteString(data.ResetLink + "\n\n")
	buf.WriteString(fmt.Sprintf("The link expires in %s.\n\n", data.ExpiresIn))
	buf.WriteString("If you did not request a reset, you can safely ignore this email.\n")
	return buf.String()
}

func buildResetHTML(data ResetEmailData) string {
	tmpl := template.Must(template.New("reset").Parse(resetHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const resetHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Password reset</title></head>
<body style="margin:0;padding:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Arial,sans-serif;background-color:#f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding:40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width:480px;background-color:#ffffff;border-radius:8px;">
          <tr>
            <td style="padding:32px;text-align:center;border-bottom:1px solid #e5e7eb;">
              <h1 style="margin:0;font-size:24px;font-weight:600;color:#4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding:32px;">
              <p style="margin:0 0 16px;font-size:15px;color:#111827;">A password reset was requested for your account.</p>
              <p style="margin:0 0 24px;text-align:center;">
                <a href="{{.ResetLink}}" style="display:inline-block;padding:12px 24px;background-color:#4f46e5;color:#ffffff;border-radius:6px;text-decoration:none;font-weight:600;">Choose a new password</a>
              </p>
              <p style="margin:0 0 8px;font-size:13px;color:#6b7280;">The link expires in {{.ExpiresIn}}.</p>
              <p style="margin:0;font-size:13px;color:#6b7280;">If you did not request a reset, you can safely ignore this email.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
