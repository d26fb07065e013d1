package email

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"net/smtp"

	"renewable-forecast/internal/models"
	"renewable-forecast/shared/config"
)

//go:embed digest_template.html
var digestTemplate string

var tmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
}).Parse(digestTemplate))

type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// SendDigest mails the digest, or does nothing when no SMTP server is configured
func (s *Sender) SendDigest(digest *models.ForecastDigest) error {
	if digest == nil {
		return fmt.Errorf("digest cannot be nil")
	}
	if !s.config.Enabled() {
		log.Printf("Email not configured, skipping digest for run %s", digest.RunID)
		return nil
	}

	body, err := RenderDigest(digest)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(Subject(digest), body)
}

// Subject summarises the run for the mail subject line
func Subject(digest *models.ForecastDigest) string {
	var total float64
	for _, site := range digest.Sites {
		total += site.TotalKWh
	}
	return fmt.Sprintf("Generation Forecast - %d/%d Sites, %.0f kWh (%s)",
		digest.Succeeded(), len(digest.Sites), total, digest.Generated.Format("Jan 2, 2006"))
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	return s.sendViaSMTP(subject, htmlBody)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

func RenderDigest(digest *models.ForecastDigest) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, digest); err != nil {
		return "", err
	}
	return buf.String(), nil
}
