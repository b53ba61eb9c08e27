package email

import (
	"context"
	"log"

	"studyhub/internal/config"
	"studyhub/internal/models"
)

// ModeratorEmailGetter is an interface for getting moderator emails.
type ModeratorEmailGetter interface {
	GetModeratorEmails(ctx context.Context) ([]string, error)
}

// Notifier sends email notifications for various events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	db        ModeratorEmailGetter
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db ModeratorEmailGetter) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		db:        db,
	}
}

// NotifyContactReceived acknowledges a contact form submission to its
// sender and forwards it to the admin inbox.
func (n *Notifier) NotifyContactReceived(ctx context.Context, contact *models.Contact) {
	if !n.service.IsEnabled() {
		return
	}

	if contact.Email != "" {
		subject, htmlBody, textBody := n.templates.ContactReceived(contact)
		n.service.SendAsync([]string{contact.Email}, subject, htmlBody, textBody)
	}

	if n.cfg.AdminMail != "" {
		subject, htmlBody, textBody := n.templates.ContactNotification(contact)
		n.service.SendAsync([]string{n.cfg.AdminMail}, subject, htmlBody, textBody)
	}
}

// NotifyReportFiled tells moderators a new content report needs review.
func (n *Notifier) NotifyReportFiled(ctx context.Context, report *models.Report, reporter *models.User) {
	if !n.service.IsEnabled() {
		return
	}

	emails, err := n.db.GetModeratorEmails(ctx)
	if err != nil {
		log.Printf("Failed to get moderator emails: %v", err)
		return
	}

	if len(emails) == 0 {
		log.Println("No moderator emails found for notification")
		return
	}

	subject, htmlBody, textBody := n.templates.ReportFiled(report, reporter)
	n.service.SendAsync(emails, subject, htmlBody, textBody)
}
