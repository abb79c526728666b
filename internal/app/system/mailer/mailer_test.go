package mailer

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing host",
			cfg:     Config{From: "no-reply@x.com"},
			wantErr: "mail_smtp_host",
		},
		{
			name:    "missing from",
			cfg:     Config{Host: "smtp.x.com"},
			wantErr: "mail_from",
		},
		{
			name:    "user without pass",
			cfg:     Config{Host: "smtp.x.com", From: "no-reply@x.com", User: "u"},
			wantErr: "incomplete SMTP credentials",
		},
		{
			name: "unauthenticated relay is fine",
			cfg:  Config{Host: "localhost", Port: 1025, From: "no-reply@x.com"},
		},
		{
			name: "full credentials are fine",
			cfg:  Config{Host: "smtp.x.com", Port: 587, From: "no-reply@x.com", User: "u", Pass: "p"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, zap.NewNop())
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("New() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want one containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildMessage_BccNeverInHeaders(t *testing.T) {
	msg := string(buildMessage(Email{
		Bcc:      []string{"a@x.com", "b@x.com"},
		Subject:  "Announcement",
		TextBody: "hello",
	}, "SIH Organizers <no-reply@x.com>"))

	headers := strings.SplitN(msg, "\r\n\r\n", 2)[0]

	if strings.Contains(headers, "a@x.com") || strings.Contains(headers, "b@x.com") {
		t.Errorf("BCC recipients leaked into headers:\n%s", headers)
	}
	// With no To recipients the To header carries only the sender.
	if !strings.Contains(headers, "To: SIH Organizers <no-reply@x.com>") {
		t.Errorf("To header should fall back to the sender:\n%s", headers)
	}
}

func TestBuildMessage_MultipartAlternative(t *testing.T) {
	msg := string(buildMessage(Email{
		To:       []string{"a@x.com"},
		Subject:  "s",
		TextBody: "plain version",
		HTMLBody: "<p>html version</p>",
	}, "no-reply@x.com"))

	if !strings.Contains(msg, "multipart/alternative") {
		t.Error("message with both bodies should be multipart/alternative")
	}
	if !strings.Contains(msg, "plain version") || !strings.Contains(msg, "<p>html version</p>") {
		t.Error("both bodies should appear in the message")
	}
}

func TestBuildMessage_PlainTextOnly(t *testing.T) {
	msg := string(buildMessage(Email{
		To:       []string{"a@x.com"},
		Subject:  "s",
		TextBody: "just text",
	}, "no-reply@x.com"))

	if !strings.Contains(msg, "Content-Type: text/plain") {
		t.Error("text-only message should be text/plain")
	}
	if strings.Contains(msg, "multipart") {
		t.Error("text-only message must not be multipart")
	}
}

func TestEnvelopeAddress(t *testing.T) {
	got, err := envelopeAddress("SIH Organizers <no-reply@x.com>")
	if err != nil {
		t.Fatalf("envelopeAddress() error = %v", err)
	}
	if got != "no-reply@x.com" {
		t.Errorf("envelopeAddress() = %q, want bare address", got)
	}

	if _, err := envelopeAddress("not an address"); err == nil {
		t.Error("envelopeAddress() accepted garbage")
	}
}

func TestFactory_SingleInstance(t *testing.T) {
	f := NewFactory(Config{Host: "localhost", Port: 1025, From: "no-reply@x.com"}, zap.NewNop())

	m1, err1 := f.Get()
	m2, err2 := f.Get()
	if err1 != nil || err2 != nil {
		t.Fatalf("Get() errors = %v, %v", err1, err2)
	}
	if m1 != m2 {
		t.Error("Factory constructed more than one Mailer")
	}
}

func TestFactory_StickyConfigError(t *testing.T) {
	f := NewFactory(Config{}, zap.NewNop())

	if _, err := f.Get(); err == nil {
		t.Fatal("Get() with empty config should fail")
	}
	if _, err := f.Get(); err == nil {
		t.Fatal("configuration error should be sticky")
	}
}
