package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService sends WFH workflow mail.
type EmailService interface {
	SendWFHRequested(to, managerName, employeeName, date, reason string) error
	SendWFHDecision(to, employeeName, date, status string) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	dialer    dialer
	backoff   time.Duration
}

// NewEmailService parses the embedded templates. With an empty SMTP host mail is logged and dropped.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	svc := &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		backoff:   time.Second,
	}
	if cfg.Host != "" {
		svc.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return svc, nil
}

type wfhRequestedData struct {
	ManagerName  string
	EmployeeName string
	Date         string
	Reason       string
}

func (s *emailServiceImpl) SendWFHRequested(to, managerName, employeeName, date, reason string) error {
	var body bytes.Buffer
	err := s.templates.ExecuteTemplate(&body, "wfh_requested.html", wfhRequestedData{
		ManagerName:  managerName,
		EmployeeName: employeeName,
		Date:         date,
		Reason:       reason,
	})
	if err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("WFH request from %s for %s", employeeName, date), body.String())
}

type wfhDecisionData struct {
	EmployeeName string
	Date         string
	Status       string
}

func (s *emailServiceImpl) SendWFHDecision(to, employeeName, date, status string) error {
	var body bytes.Buffer
	err := s.templates.ExecuteTemplate(&body, "wfh_decision.html", wfhDecisionData{
		EmployeeName: employeeName,
		Date:         date,
		Status:       status,
	})
	if err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Your WFH request for %s was %s", date, status), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	if s.dialer == nil {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.dialer.DialAndSend(m)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}
		lastErr = err
		slog.Warn("Email send failed", "to", to, "attempt", attempt, "error", err)
		if attempt < maxRetries {
			time.Sleep(s.backoff * time.Duration(attempt))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
