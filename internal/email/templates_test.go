package email

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"studyhub/internal/config"
	"studyhub/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		SiteTitle: "TestStudyHub",
		BaseURL:   "https://study.example.com",
	}
}

func TestTemplates_BaseHTML(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	html := tmpl.baseHTML("Test Title", "<p>Test content</p>")

	checks := []string{
		"<!DOCTYPE html>",
		"<title>Test Title</title>",
		"TestStudyHub",
		"https://study.example.com",
		"<p>Test content</p>",
	}

	for _, check := range checks {
		if !strings.Contains(html, check) {
			t.Errorf("baseHTML missing %q", check)
		}
	}
}

func TestTemplates_BaseHTML_EscapesHTML(t *testing.T) {
	cfg := testConfig()
	cfg.SiteTitle = "<script>alert('xss')</script>"
	tmpl := NewTemplates(cfg)

	html := tmpl.baseHTML("Test", "Content")

	if strings.Contains(html, "<script>") {
		t.Error("baseHTML should escape HTML in site title")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("baseHTML should contain escaped script tag")
	}
}

func TestTemplates_ContactReceived(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	contact := &models.Contact{
		FullName:    "Linh Nguyen",
		Email:       "linh@example.com",
		PhoneNumber: "+84912345678",
		Content:     "When will the TOEIC course open?",
	}

	subject, htmlBody, textBody := tmpl.ContactReceived(contact)

	if !strings.Contains(subject, "TestStudyHub") {
		t.Errorf("subject = %q, missing site title", subject)
	}
	if !strings.Contains(htmlBody, "Linh Nguyen") {
		t.Error("htmlBody missing sender name")
	}
	if !strings.Contains(textBody, contact.Content) {
		t.Error("textBody missing message content")
	}
}

func TestTemplates_ContactReceived_EscapesContent(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	contact := &models.Contact{
		FullName: "Attacker",
		Content:  `<img src=x onerror="alert(1)">`,
	}

	_, htmlBody, _ := tmpl.ContactReceived(contact)
	if strings.Contains(htmlBody, "<img src=x") {
		t.Error("ContactReceived should escape HTML in message content")
	}
}

func TestTemplates_ContactNotification(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	contact := &models.Contact{
		FullName:    "Linh Nguyen",
		Email:       "linh@example.com",
		PhoneNumber: "+84912345678",
		Content:     "Please call me back.",
	}

	subject, htmlBody, textBody := tmpl.ContactNotification(contact)

	if !strings.Contains(subject, "Linh Nguyen") {
		t.Errorf("subject = %q, missing sender name", subject)
	}
	for _, want := range []string{contact.Email, contact.PhoneNumber, contact.Content} {
		if !strings.Contains(htmlBody, want) {
			t.Errorf("htmlBody missing %q", want)
		}
		if !strings.Contains(textBody, want) {
			t.Errorf("textBody missing %q", want)
		}
	}
}

func TestTemplates_ReportFiled(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	report := &models.Report{
		TargetType: models.ReportTargetQuestion,
		TargetID:   uuid.New(),
		Reason:     models.ReportReasonSpam,
		Details:    "Advertising an unrelated product",
	}
	reporter := &models.User{
		Name:  "Mod Helper",
		Email: "helper@example.com",
	}

	subject, htmlBody, textBody := tmpl.ReportFiled(report, reporter)

	if !strings.Contains(subject, "question") || !strings.Contains(subject, "spam") {
		t.Errorf("subject = %q, missing target type or reason", subject)
	}
	if !strings.Contains(htmlBody, report.TargetID.String()) {
		t.Error("htmlBody missing target ID")
	}
	if !strings.Contains(textBody, "Advertising an unrelated product") {
		t.Error("textBody missing details")
	}
	if !strings.Contains(textBody, "helper@example.com") {
		t.Error("textBody missing reporter email")
	}
}
