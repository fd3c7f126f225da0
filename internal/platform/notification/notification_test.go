package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestManager() (*Manager, *MockEmailSender, *MockSMSSender) {
	email := &MockEmailSender{}
	sms := &MockSMSSender{}
	return NewManager(email, sms, NewTemplateEngine()), email, sms
}

func TestManager_SendEmail(t *testing.T) {
	m, email, _ := newTestManager()
	n := &Notification{Type: TypeEmail, Recipient: "donor@example.com", Subject: "hi", Body: "body"}
	if err := m.Send(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Status != "sent" || n.SentAt == nil {
		t.Errorf("expected sent status, got %q", n.Status)
	}
	if calls := email.Calls(); len(calls) != 1 || calls[0].To != "donor@example.com" {
		t.Errorf("unexpected email calls: %v", calls)
	}
}

func TestManager_SendRequiresRecipient(t *testing.T) {
	m, _, _ := newTestManager()
	err := m.Send(context.Background(), &Notification{Type: TypeEmail})
	if err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestManager_RetriesThenFails(t *testing.T) {
	m, email, _ := newTestManager()
	email.Err = errors.New("smtp down")
	n := &Notification{Type: TypeEmail, Recipient: "x@y.z", Body: "b"}
	if err := m.Send(context.Background(), n); err == nil {
		t.Fatal("expected send to fail")
	}
	if n.Status != "failed" || n.Error == "" {
		t.Errorf("expected failed status with error, got %+v", n)
	}
	if len(email.Calls()) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(email.Calls()))
	}
}

func TestManager_SendFromTemplate(t *testing.T) {
	m, _, sms := newTestManager()
	data := map[string]string{
		"blood_group":   "O-",
		"units":         "2",
		"hospital_name": "City General",
		"hospital_city": "Pune",
		"urgency":       "high",
	}
	n, err := m.SendFromTemplate(context.Background(), TypeSMS, "sos_alert", data, "+911234567890")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(n.Body, "O-") || !strings.Contains(n.Body, "City General") {
		t.Errorf("template placeholders not substituted: %q", n.Body)
	}
	if calls := sms.Calls(); len(calls) != 1 || calls[0].To != "+911234567890" {
		t.Errorf("unexpected sms calls: %v", calls)
	}
}

func TestManager_SendFromTemplate_Unknown(t *testing.T) {
	m, _, _ := newTestManager()
	if _, err := m.SendFromTemplate(context.Background(), TypeEmail, "nope", nil, "a@b.c"); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestHTTPSMSSender(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewHTTPSMSSender(srv.URL, "key123")
	if err := s.SendSMS(context.Background(), "+911111111111", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer key123" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
}

func TestHTTPSMSSender_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewHTTPSMSSender(srv.URL, "key")
	if err := s.SendSMS(context.Background(), "+911111111111", "hello"); err == nil {
		t.Fatal("expected error for gateway failure")
	}
}
