package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// LogEmailSender writes email to the log instead of delivering it. Used in
// development and as the fallback when no SMTP relay is configured.
type LogEmailSender struct {
	Logger zerolog.Logger
}

func (s *LogEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.Logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("email (log sender)")
	return nil
}

// LogSMSSender writes SMS to the log instead of delivering it.
type LogSMSSender struct {
	Logger zerolog.Logger
}

func (s *LogSMSSender) SendSMS(_ context.Context, to, body string) error {
	s.Logger.Info().
		Str("to", to).
		Str("body", body).
		Msg("sms (log sender)")
	return nil
}

// HTTPSMSSender posts messages to an SMS gateway over HTTP.
type HTTPSMSSender struct {
	client *resty.Client
	apiKey string
}

// NewHTTPSMSSender builds a sender for the gateway at baseURL.
func NewHTTPSMSSender(baseURL, apiKey string) *HTTPSMSSender {
	return &HTTPSMSSender{
		client: resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
	}
}

func (s *HTTPSMSSender) SendSMS(ctx context.Context, to, body string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetBody(map[string]string{"to": to, "message": body}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mocks for tests
// ---------------------------------------------------------------------------

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender records calls for assertions in tests.
type MockEmailSender struct {
	mu    sync.Mutex
	calls []EmailCall
	Err   error
}

func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	return m.Err
}

func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// SMSCall records a single call to SendSMS.
type SMSCall struct {
	To   string
	Body string
}

// MockSMSSender records calls for assertions in tests.
type MockSMSSender struct {
	mu    sync.Mutex
	calls []SMSCall
	Err   error
}

func (m *MockSMSSender) SendSMS(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SMSCall{To: to, Body: body})
	return m.Err
}

func (m *MockSMSSender) Calls() []SMSCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SMSCall, len(m.calls))
	copy(out, m.calls)
	return out
}
