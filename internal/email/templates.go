package email

import (
	"fmt"
	"html"

	"studyhub/internal/config"
	"studyhub/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #059669; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .warning { color: #d97706; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// ContactReceived generates the acknowledgement sent to whoever submitted
// the contact form.
func (t *Templates) ContactReceived(contact *models.Contact) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] We received your message", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Hi %s,</p>
        <p>Thanks for getting in touch. We received your message and will reply as soon as we can.</p>

        <div class="info-box">
            <p><span class="label">Your message:</span></p>
            <p>%s</p>
        </div>
    `,
		html.EscapeString(contact.FullName),
		html.EscapeString(contact.Content),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Hi %s,

Thanks for getting in touch. We received your message and will reply as soon as we can.

Your message:
%s

--
%s
%s`,
		contact.FullName,
		contact.Content,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// ContactNotification generates the admin notice for a new contact
// form submission.
func (t *Templates) ContactNotification(contact *models.Contact) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] New contact form submission from %s", t.cfg.SiteTitle, contact.FullName)

	content := fmt.Sprintf(`
        <p>A new contact form submission has arrived.</p>

        <div class="info-box">
            <p><span class="label">Name:</span> %s</p>
            <p><span class="label">Email:</span> %s</p>
            <p><span class="label">Phone:</span> %s</p>
            <p><span class="label">Message:</span></p>
            <p>%s</p>
        </div>
    `,
		html.EscapeString(contact.FullName),
		html.EscapeString(contact.Email),
		html.EscapeString(contact.PhoneNumber),
		html.EscapeString(contact.Content),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`New contact form submission

Name: %s
Email: %s
Phone: %s

Message:
%s

--
%s
%s`,
		contact.FullName,
		contact.Email,
		contact.PhoneNumber,
		contact.Content,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// ReportFiled generates the moderator notice for a new content report.
func (t *Templates) ReportFiled(report *models.Report, reporter *models.User) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] New %s report: %s", t.cfg.SiteTitle, report.TargetType, report.Reason)

	content := fmt.Sprintf(`
        <p>A %s has been reported and needs review.</p>

        <div class="info-box">
            <p><span class="label">Target:</span> %s %s</p>
            <p><span class="label">Reason:</span> <span class="warning">%s</span></p>
            <p><span class="label">Details:</span> %s</p>
            <p><span class="label">Reported by:</span> %s (%s)</p>
        </div>
    `,
		html.EscapeString(report.TargetType),
		html.EscapeString(report.TargetType),
		report.TargetID,
		html.EscapeString(report.Reason),
		html.EscapeString(report.Details),
		html.EscapeString(reporter.Name),
		html.EscapeString(reporter.Email),
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`New %s report

Target: %s %s
Reason: %s
Details: %s
Reported by: %s (%s)

--
%s
%s`,
		report.TargetType,
		report.TargetType,
		report.TargetID,
		report.Reason,
		report.Details,
		reporter.Name,
		reporter.Email,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}
