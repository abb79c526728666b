// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// RegistrationEmailData holds data for the registration confirmation
// email.
type RegistrationEmailData struct {
	SiteName string
	Name     string
}

// BuildRegistrationEmail creates the registration confirmation email
// with both text and HTML bodies.
func BuildRegistrationEmail(data RegistrationEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("%s - Registration Confirmed", data.SiteName),
		TextBody: buildRegistrationText(data),
		HTMLBody: buildRegistrationHTML(data),
	}
}

func buildRegistrationText(data RegistrationEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hi %s,\n\n", data.Name))
	buf.WriteString(fmt.Sprintf("Your registration for %s is confirmed.\n\n", data.SiteName))
	buf.WriteString("We will share updates and announcements via email.\n")
	buf.WriteString("Thank you and good luck!\n\n")
	buf.WriteString("- Organizing Team\n")
	return buf.String()
}

func buildRegistrationHTML(data RegistrationEmailData) string {
	tmpl := template.Must(template.New("registration").Parse(registrationHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const registrationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Registration Confirmed</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hi {{.Name}},</p>
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">
                Your registration is confirmed. We will share updates and announcements via email.
              </p>
              <p style="margin: 0; font-size: 16px; color: #374151;">Thank you and good luck!</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">- Organizing Team</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
