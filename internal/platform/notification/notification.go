// Package notification delivers donor-facing email and SMS alerts with
// template rendering and bounded retry. Senders are pluggable; the default
// wiring logs email in development and posts SMS to an HTTP gateway.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type is the channel used to deliver a notification.
type Type string

const (
	TypeEmail Type = "email"
	TypeSMS   Type = "sms"
)

// Notification is a single outbound message.
type Notification struct {
	ID           string            `json:"id"`
	Type         Type              `json:"type"`
	Recipient    string            `json:"recipient"`
	Subject      string            `json:"subject,omitempty"`
	Body         string            `json:"body"`
	TemplateID   string            `json:"template_id,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// EmailSender is the interface for sending email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender is the interface for sending SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// ---------------------------------------------------------------------------
// Templates
// ---------------------------------------------------------------------------

// Template is a named message template with {{placeholder}} substitution.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// TemplateEngine stores and renders message templates.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewTemplateEngine returns an engine preloaded with the SOS alert templates.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]Template)}
	e.Register(Template{
		ID:      "sos_alert",
		Subject: "Urgent: {{blood_group}} blood needed at {{hospital_name}}",
		Body: "An emergency request for {{units}} unit(s) of {{blood_group}} blood " +
			"was raised by {{hospital_name}}, {{hospital_city}} (urgency: {{urgency}}). " +
			"Open your donor dashboard to respond.",
	})
	e.Register(Template{
		ID:      "sos_response",
		Subject: "A donor responded to your request for {{patient_name}}",
		Body: "Request for {{patient_name}} ({{blood_group}}) is now {{status}}. " +
			"Donor contact: {{donor_phone}}.",
	})
	return e
}

// Register adds or replaces a template.
func (e *TemplateEngine) Register(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = t
}

// Render substitutes {{key}} placeholders with values from data.
func (e *TemplateEngine) Render(id string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[id]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", id)
	}
	subject, body = t.Subject, t.Body
	for k, v := range data {
		subject = strings.ReplaceAll(subject, "{{"+k+"}}", v)
		body = strings.ReplaceAll(body, "{{"+k+"}}", v)
	}
	return subject, body, nil
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

// Manager dispatches notifications to the configured senders, retrying a
// failed send up to maxAttempts times before recording the failure.
type Manager struct {
	email EmailSender
	sms   SMSSender
	tpl   *TemplateEngine

	mu          sync.Mutex
	sent        []*Notification
	maxAttempts int
}

func NewManager(email EmailSender, sms SMSSender, tpl *TemplateEngine) *Manager {
	return &Manager{email: email, sms: sms, tpl: tpl, maxAttempts: 3}
}

// Send delivers a single notification.
func (m *Manager) Send(ctx context.Context, n *Notification) error {
	if n.Recipient == "" {
		return errors.New("recipient is required")
	}
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()

	var err error
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		switch n.Type {
		case TypeEmail:
			err = m.email.SendEmail(ctx, n.Recipient, n.Subject, n.Body)
		case TypeSMS:
			err = m.sms.SendSMS(ctx, n.Recipient, n.Body)
		default:
			return fmt.Errorf("unknown notification type %q", n.Type)
		}
		if err == nil {
			break
		}
	}

	if err != nil {
		n.Status = "failed"
		n.Error = err.Error()
	} else {
		now := time.Now()
		n.Status = "sent"
		n.SentAt = &now
	}

	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()
	return err
}

// SendFromTemplate renders a template and sends it over the given channel.
func (m *Manager) SendFromTemplate(ctx context.Context, typ Type, templateID string, data map[string]string, recipient string) (*Notification, error) {
	subject, body, err := m.tpl.Render(templateID, data)
	if err != nil {
		return nil, err
	}
	n := &Notification{
		Type:         typ,
		Recipient:    recipient,
		Subject:      subject,
		Body:         body,
		TemplateID:   templateID,
		TemplateData: data,
	}
	return n, m.Send(ctx, n)
}

// History returns a copy of every notification dispatched so far.
func (m *Manager) History() []*Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Notification, len(m.sent))
	copy(out, m.sent)
	return out
}
