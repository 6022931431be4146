package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"skillnexis/backend/models"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

const DefaultBrevoURL = "https://api.brevo.com/v3/smtp/email"

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Email is an outgoing transactional message in the shape of the Brevo API.
type Email struct {
	Sender      Address   `json:"sender"`
	To          []Address `json:"to"`
	ReplyTo     *Address  `json:"replyTo,omitempty"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"htmlContent"`
	TextContent string    `json:"textContent"`
}

// Mailer delivers an email and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, email Email) (string, error)
}

// BrevoMailer sends through the Brevo transactional email API.
type BrevoMailer struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
}

func NewBrevoMailer(apiKey, endpoint string) *BrevoMailer {
	if endpoint == "" {
		endpoint = DefaultBrevoURL
	}
	return &BrevoMailer{
		APIKey:   apiKey,
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *BrevoMailer) Send(ctx context.Context, email Email) (string, error) {
	body, err := sonic.ConfigStd.Marshal(email)
	if err != nil {
		return "", fmt.Errorf("encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.APIKey)

	resp, err := b.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read email response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var result struct {
		MessageID string `json:"messageId"`
	}
	if err := sonic.ConfigStd.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode email response: %w", err)
	}
	return result.MessageID, nil
}

// LogMailer only logs messages. It is used when no API key is configured.
type LogMailer struct {
	Logger *log.Logger
}

func (l *LogMailer) Send(_ context.Context, email Email) (string, error) {
	id := "simulated-" + uuid.NewString()
	recipients := make([]string, 0, len(email.To))
	for _, to := range email.To {
		recipients = append(recipients, to.Email)
	}
	l.Logger.Printf("[EMAIL] Simulated send to %s | Subject: %s | ID: %s",
		strings.Join(recipients, ","), email.Subject, id)
	return id, nil
}

type ContactConfig struct {
	FromName     string
	FromEmail    string
	ContactEmail string
}

// ContactService relays contact form submissions to the team inbox.
type ContactService struct {
	mailer Mailer
	cfg    ContactConfig
	logger *log.Logger
}

func NewContactService(mailer Mailer, cfg ContactConfig, logger *log.Logger) *ContactService {
	return &ContactService{mailer: mailer, cfg: cfg, logger: logger}
}

var contactHTML = template.Must(template.New("contact").Parse(`<div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; max-width: 600px; margin: 0 auto; background-color: #ffffff;">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 700;">New Contact Form Submission</h1>
    <p style="color: #e8f4fd; margin: 10px 0 0 0; font-size: 16px;">SkillNexis Website</p>
  </div>
  <div style="padding: 40px 30px; background-color: #f8fafc; border-radius: 0 0 10px 10px;">
    <div style="background-color: #ffffff; padding: 30px; border-radius: 10px; margin-bottom: 20px;">
      <h2 style="color: #2d3748; margin: 0 0 20px 0; font-size: 20px;">Contact Details</h2>
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
      <p><strong>Subject:</strong> {{.Subject}}</p>
    </div>
    <div style="background-color: #ffffff; padding: 30px; border-radius: 10px;">
      <h3 style="color: #2d3748; margin: 0 0 15px 0; font-size: 18px;">Message:</h3>
      <div style="background-color: #f7fafc; padding: 20px; border-left: 4px solid #3182ce; line-height: 1.6;">
        {{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}
      </div>
    </div>
    <p style="margin-top: 30px; color: #718096; font-size: 14px; text-align: center;">
      This email was sent from the SkillNexis contact form.<br>
      Reply directly to this email to respond to <strong>{{.Name}}</strong> at <strong>{{.Email}}</strong>
    </p>
  </div>
</div>`))

const contactText = `New Contact Form Submission - SkillNexis

Contact Details:
Name: %s
Email: %s
Subject: %s

Message:
%s

---
This email was sent from the SkillNexis contact form.
Reply directly to this email to respond to %s at %s
`

func (s *ContactService) compose(msg models.ContactMessage) (Email, error) {
	var html bytes.Buffer
	err := contactHTML.Execute(&html, struct {
		models.ContactMessage
		Lines []string
	}{msg, strings.Split(msg.Message, "\n")})
	if err != nil {
		return Email{}, fmt.Errorf("render contact email: %w", err)
	}

	return Email{
		Sender:      Address{Name: s.cfg.FromName, Email: s.cfg.FromEmail},
		To:          []Address{{Name: "SkillNexis Team", Email: s.cfg.ContactEmail}},
		ReplyTo:     &Address{Name: msg.Name, Email: msg.Email},
		Subject:     "Contact Form: " + msg.Subject,
		HTMLContent: html.String(),
		TextContent: fmt.Sprintf(contactText, msg.Name, msg.Email, msg.Subject, msg.Message, msg.Name, msg.Email),
	}, nil
}

// Submit validates a contact message and relays it. It returns the message id.
func (s *ContactService) Submit(ctx context.Context, msg models.ContactMessage) (string, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return "", newValidationError("", "All fields are required")
	}
	if !ValidEmail(msg.Email) {
		return "", newValidationError("email", "Invalid email format")
	}

	email, err := s.compose(msg)
	if err != nil {
		return "", err
	}
	id, err := s.mailer.Send(ctx, email)
	if err != nil {
		s.logger.Printf("[CONTACT] Error relaying message from %s: %v", msg.Email, err)
		return "", err
	}
	s.logger.Printf("[CONTACT] Message from %s relayed | ID: %s", msg.Email, id)
	return id, nil
}
