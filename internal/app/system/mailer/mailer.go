// internal/app/system/mailer/mailer.go

// Package mailer sends email over SMTP.
//
// The transport is deliberately thin: one connection per Send, implicit
// TLS on port 465, STARTTLS when the server offers it, PLAIN auth when
// credentials are configured. Mass mailings go through
// system/broadcast, which batches recipients into BCC-only sends.
package mailer

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Config holds the SMTP settings from AppConfig.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string // address, e.g. no-reply@sih-internals.local
	FromName string // display name, e.g. SIH Organizers
}

// Email is one outbound message. Recipients listed in Bcc are carried
// only in the SMTP envelope; they never appear in the message headers,
// so they stay invisible to each other. When To is empty the To header
// is set to the sender's own identity.
type Email struct {
	To      []string
	Bcc     []string
	From    string // optional override of the configured sender
	Subject string

	TextBody string
	HTMLBody string
}

// Mailer is a reusable SMTP sender. Safe for concurrent use; each Send
// opens its own connection.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New validates the SMTP configuration and returns a Mailer. A missing
// host or sender address is a configuration error and must surface
// before any message is attempted.
func New(cfg Config, logger *zap.Logger) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("missing SMTP configuration: mail_smtp_host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("missing SMTP configuration: mail_from is required")
	}
	if (cfg.User == "") != (cfg.Pass == "") {
		return nil, fmt.Errorf("incomplete SMTP credentials: set both mail_smtp_user and mail_smtp_pass, or neither")
	}
	return &Mailer{cfg: cfg, log: logger}, nil
}

// Send delivers one message. All envelope recipients (To + Bcc) receive
// it; header recipients are only those in To.
func (m *Mailer) Send(e Email) error {
	rcpts := make([]string, 0, len(e.To)+len(e.Bcc))
	rcpts = append(rcpts, e.To...)
	rcpts = append(rcpts, e.Bcc...)
	if len(rcpts) == 0 {
		return fmt.Errorf("no recipients")
	}

	from := e.From
	if from == "" {
		from = m.fromHeader()
	}
	envFrom, err := envelopeAddress(from)
	if err != nil {
		return fmt.Errorf("invalid sender address %q: %w", from, err)
	}

	msg := buildMessage(e, from)

	client, err := m.dial()
	if err != nil {
		return err
	}
	defer client.Quit()

	if m.cfg.User != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth: %w", err)
		}
	}

	if err := client.Mail(envFrom); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	for _, addr := range rcpts {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close DATA: %w", err)
	}

	m.log.Debug("email sent",
		zap.Int("recipients", len(rcpts)),
		zap.String("subject", e.Subject))
	return nil
}

// dial opens the SMTP connection: implicit TLS on 465, otherwise plain
// with STARTTLS upgrade when the server advertises it.
func (m *Mailer) dial() (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	tlsCfg := &tls.Config{ServerName: m.cfg.Host}

	if m.cfg.Port == 465 {
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return nil, fmt.Errorf("TLS dial %s: %w", addr, err)
		}
		client, err := smtp.NewClient(conn, m.cfg.Host)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("SMTP client: %w", err)
		}
		return client, nil
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("SMTP dial %s: %w", addr, err)
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(tlsCfg); err != nil {
			client.Close()
			return nil, fmt.Errorf("STARTTLS: %w", err)
		}
	}
	return client, nil
}

func (m *Mailer) fromHeader() string {
	if m.cfg.FromName == "" {
		return m.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.cfg.FromName), m.cfg.From)
}

// envelopeAddress extracts the bare address from a From header value
// that may carry a display name.
func envelopeAddress(from string) (string, error) {
	a, err := mail.ParseAddress(from)
	if err != nil {
		return "", err
	}
	return a.Address, nil
}

// buildMessage renders the RFC 5322 message. Bcc recipients are
// intentionally absent from the headers; with no To recipients the To
// header carries only the sender so mass mailings expose no addresses.
func buildMessage(e Email, from string) []byte {
	var b strings.Builder

	toHeader := strings.Join(e.To, ", ")
	if toHeader == "" {
		toHeader = from
	}

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + toHeader + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", e.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case e.HTMLBody != "" && e.TextBody != "":
		const boundary = "sih-alt-7f3a9c"
		b.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n\r\n")
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(e.TextBody + "\r\n")
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(e.HTMLBody + "\r\n")
		b.WriteString("--" + boundary + "--\r\n")
	case e.HTMLBody != "":
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(e.HTMLBody + "\r\n")
	default:
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(e.TextBody + "\r\n")
	}

	return []byte(b.String())
}
