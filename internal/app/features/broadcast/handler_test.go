package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ucek-sih/internals-portal/internal/app/system/auth"
	dispatcher "github.com/ucek-sih/internals-portal/internal/app/system/broadcast"
	"github.com/ucek-sih/internals-portal/internal/app/system/mailer"
)

type stubRecipients struct {
	emails []string
	err    error
}

func (s stubRecipients) ListEmails(context.Context) ([]string, error) {
	return s.emails, s.err
}

type stubSender struct {
	sent []mailer.Email
	err  error
}

func (s *stubSender) Send(e mailer.Email) error {
	s.sent = append(s.sent, e)
	return s.err
}

type stubMail struct {
	sender dispatcher.Sender
	err    error
}

func (s stubMail) Sender() (dispatcher.Sender, error) {
	return s.sender, s.err
}

func newRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/broadcast", strings.NewReader(body))
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:    "admin@test.com",
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  "admin",
	})
}

func TestServeBroadcast_MissingSubjectOrMessage(t *testing.T) {
	h := NewHandler(stubRecipients{}, stubMail{sender: &stubSender{}}, 50, 0, zap.NewNop())

	for _, body := range []string{
		`{"message":"hello"}`,
		`{"subject":"hi"}`,
		`{"subject":"  ","message":"hello"}`,
	} {
		rec := httptest.NewRecorder()
		h.ServeBroadcast(rec, newRequest(body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestServeBroadcast_MalformedBody(t *testing.T) {
	h := NewHandler(stubRecipients{}, stubMail{sender: &stubSender{}}, 50, 0, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeBroadcast(rec, newRequest(`{"subject":`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeBroadcast_MailNotConfigured(t *testing.T) {
	h := NewHandler(
		stubRecipients{emails: []string{"a@x.com"}},
		stubMail{err: errors.New("missing SMTP configuration: mail_smtp_host is required")},
		50, 0, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeBroadcast(rec, newRequest(`{"subject":"s","message":"m"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Email service not configured" {
		t.Errorf("error = %v", body["error"])
	}
	if body["suggestion"] == nil || body["detail"] == nil {
		t.Errorf("response should carry detail and suggestion: %v", body)
	}
}

func TestServeBroadcast_NoRecipients(t *testing.T) {
	sender := &stubSender{}
	h := NewHandler(stubRecipients{}, stubMail{sender: sender}, 50, 0, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeBroadcast(rec, newRequest(`{"subject":"s","message":"m"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["ok"] != true {
		t.Errorf("body = %v, want ok true", body)
	}
	if len(sender.sent) != 0 {
		t.Errorf("transport called %d times with no recipients", len(sender.sent))
	}
}

func TestServeBroadcast_DispatchesAndReportsResult(t *testing.T) {
	sender := &stubSender{}
	recipients := []string{"a@x.com", "b@x.com", "c@x.com"}
	h := NewHandler(stubRecipients{emails: recipients}, stubMail{sender: sender}, 50, 0, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeBroadcast(rec, newRequest(`{"subject":"Event Update","message":"Venue changed.","chunkSize":2}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result dispatcher.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.TotalRecipients != 3 || result.Batches != 2 || result.Accepted != 3 {
		t.Errorf("result = %+v", result)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d batches, want 2", len(sender.sent))
	}
	for _, e := range sender.sent {
		if len(e.To) != 0 {
			t.Errorf("To = %v, want empty (BCC only)", e.To)
		}
		if e.Subject != "Event Update" {
			t.Errorf("subject = %q", e.Subject)
		}
	}
}

func TestServeBroadcast_SanitizesHTML(t *testing.T) {
	sender := &stubSender{}
	h := NewHandler(stubRecipients{emails: []string{"a@x.com"}}, stubMail{sender: sender}, 50, 0, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeBroadcast(rec, newRequest(
		`{"subject":"s","message":"m","html":"<p>hi</p><script>alert(1)</script>"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	html := sender.sent[0].HTMLBody
	if strings.Contains(html, "<script>") {
		t.Errorf("script tag survived sanitization: %q", html)
	}
	if !strings.Contains(html, "<p>hi</p>") {
		t.Errorf("benign markup stripped: %q", html)
	}
}

func TestServeBroadcast_TransportFailureStillReports(t *testing.T) {
	sender := &stubSender{err: errors.New("connection refused")}
	h := NewHandler(stubRecipients{emails: []string{"a@x.com", "b@x.com"}}, stubMail{sender: sender}, 1, 0, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeBroadcast(rec, newRequest(`{"subject":"s","message":"m"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (per-batch errors are in the result)", rec.Code)
	}
	var result dispatcher.Result
	_ = json.Unmarshal(rec.Body.Bytes(), &result)
	if result.FailedBatches != 2 || result.Accepted != 0 {
		t.Errorf("result = %+v, want 2 failed batches", result)
	}
}

func TestServeBroadcast_RecipientLookupFailure(t *testing.T) {
	h := NewHandler(
		stubRecipients{err: errors.New("server selection timeout")},
		stubMail{sender: &stubSender{}}, 50, 0, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeBroadcast(rec, newRequest(`{"subject":"s","message":"m"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
