// Package mail provides a fluent mailer with two delivery drivers: the
// Resend HTTP API (RESEND_API_KEY) and plain SMTP. Receipts are best-effort,
// so callers log send errors instead of propagating them.
//
// Usage:
//
//	err := mail.To(order.Email).
//	    Subject("Разписка: " + order.Number).
//	    Body(receiptHTML).
//	    Send()
package mail

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/Kiko4ko1/magnetsbg-store/config"
)

// ErrNotConfigured is returned when no delivery driver is configured.
// Callers that treat mail as optional check for it and move on quietly.
var ErrNotConfigured = errors.New("mail: no driver configured")

// Sender delivers a built message.
type Sender interface {
	Send(m *Message) error
}

// sender is the process-wide default, set by Configure. Tests swap it.
var sender Sender

// Configure picks the delivery driver from config. Call once at boot.
// With neither a Resend key nor SMTP credentials, sending becomes a no-op
// that reports ErrNotConfigured.
func Configure() {
	switch config.MailDriver() {
	case "smtp":
		sender = NewSMTPSender()
	default:
		if key := config.ResendAPIKey(); key != "" {
			sender = NewResendSender(key)
		} else {
			sender = nil
		}
	}
}

// SetSender overrides the default sender. Intended for tests.
func SetSender(s Sender) { sender = s }

// Message is a fluent builder for an email.
type Message struct {
	from    string
	to      []string
	subject string
	body    string
	isHTML  bool
}

// To starts a message to the given recipients, from EMAIL_FROM.
func To(addresses ...string) *Message {
	return &Message{
		from:   config.EmailFrom(),
		to:     addresses,
		isHTML: true,
	}
}

// From overrides the sender address.
func (m *Message) From(addr string) *Message {
	m.from = addr
	return m
}

// Subject sets the email subject.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

// Send delivers the message through the configured driver.
func (m *Message) Send() error {
	if sender == nil {
		return ErrNotConfigured
	}
	return sender.Send(m)
}

// ─── Resend driver ───────────────────────────────────────────────────────────

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewResendSender builds a Resend driver with sane timeouts.
func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{
		APIKey:  apiKey,
		BaseURL: "https://api.resend.com",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

func (s *ResendSender) Send(m *Message) error {
	payload := resendPayload{
		From:    m.from,
		To:      m.to,
		Subject: m.subject,
	}
	if m.isHTML {
		payload.HTML = m.body
	} else {
		payload.Text = m.body
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mail: marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/emails", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("mail: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("mail: resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail: resend: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ─── SMTP driver ─────────────────────────────────────────────────────────────

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
}

// NewSMTPSender reads MAIL_HOST/PORT/USERNAME/PASSWORD from config.
func NewSMTPSender() *SMTPSender {
	return &SMTPSender{
		Host:     config.Get("MAIL_HOST", "localhost"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
	}
}

func (s *SMTPSender) Send(m *Message) error {
	if s.Username == "" {
		return ErrNotConfigured
	}

	raw := buildRaw(m)
	addr := s.Host + ":" + s.Port
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)

	// Implicit TLS for port 465, STARTTLS for 587/25.
	if s.Port == "465" {
		return s.sendTLS(addr, auth, m, raw)
	}
	return smtp.SendMail(addr, auth, s.Username, m.to, raw)
}

func (s *SMTPSender) sendTLS(addr string, auth smtp.Auth, m *Message, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.Host})
	if err != nil {
		return fmt.Errorf("mail: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(s.Username); err != nil {
		return err
	}
	for _, rcpt := range m.to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = w.Write(raw)
	return err
}

func buildRaw(m *Message) []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + m.from + "\r\n")
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	b.WriteString("Subject: " + m.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}
