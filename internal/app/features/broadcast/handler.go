// internal/app/features/broadcast/handler.go
package broadcast

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	dispatcher "github.com/ucek-sih/internals-portal/internal/app/system/broadcast"
	"github.com/ucek-sih/internals-portal/internal/app/system/authz"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/mailer"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
)

// RecipientSource lists the addresses a broadcast goes to. The
// participant store implements it.
type RecipientSource interface {
	ListEmails(ctx context.Context) ([]string, error)
}

// MailSource yields the shared mail transport, or the configuration
// error explaining why there is none.
type MailSource interface {
	Sender() (dispatcher.Sender, error)
}

// FactorySource adapts mailer.Factory to MailSource.
type FactorySource struct {
	Factory *mailer.Factory
}

func (fs FactorySource) Sender() (dispatcher.Sender, error) {
	m, err := fs.Factory.Get()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Handler serves the admin broadcast endpoint.
type Handler struct {
	Recipients RecipientSource
	Mail       MailSource
	Log        *zap.Logger

	// Defaults applied when the request leaves them unset.
	ChunkSize int
	Delay     time.Duration

	sanitizer *bluemonday.Policy
}

// NewHandler creates a new broadcast Handler.
func NewHandler(recipients RecipientSource, mail MailSource, chunkSize int, delay time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Recipients: recipients,
		Mail:       mail,
		ChunkSize:  chunkSize,
		Delay:      delay,
		Log:        logger,
		sanitizer:  bluemonday.UGCPolicy(),
	}
}

type broadcastRequest struct {
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	HTML      string `json:"html,omitempty"`
	From      string `json:"from,omitempty"`
	ChunkSize int    `json:"chunkSize,omitempty"`
	DelayMs   int    `json:"delayMs,omitempty"`
}

// ServeBroadcast emails every registered participant. The message body
// is required; an optional HTML body is sanitized before sending.
func (h *Handler) ServeBroadcast(w http.ResponseWriter, r *http.Request) {
	_, userName, _, _ := authz.UserCtx(r)

	var req broadcastRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		httpjson.Error(w, http.StatusBadRequest, "Subject and message are required")
		return
	}

	sender, err := h.Mail.Sender()
	if err != nil {
		httpjson.ErrorDetail(w, http.StatusInternalServerError, "Email service not configured", map[string]any{
			"detail":     err.Error(),
			"suggestion": "Set the SMTP host, port, and sender address in the server configuration.",
		})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "broadcast recipients")
	defer cancel()

	recipients, err := h.Recipients.ListEmails(ctx)
	if err != nil {
		h.Log.Error("broadcast: list recipients failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	if len(recipients) == 0 {
		httpjson.Write(w, http.StatusOK, map[string]any{
			"ok":   true,
			"info": "No registered participants to email",
		})
		return
	}

	chunkSize := req.ChunkSize
	if chunkSize == 0 {
		chunkSize = h.ChunkSize
	}
	delay := h.Delay
	if req.DelayMs > 0 {
		delay = time.Duration(req.DelayMs) * time.Millisecond
	}

	htmlBody := ""
	if req.HTML != "" {
		htmlBody = h.sanitizer.Sanitize(req.HTML)
	}

	h.Log.Info("broadcast requested",
		zap.String("admin", userName),
		zap.String("subject", req.Subject),
		zap.Int("recipients", len(recipients)))

	result := dispatcher.New(sender, h.Log).Dispatch(dispatcher.Job{
		Recipients:   recipients,
		Subject:      req.Subject,
		TextBody:     req.Message,
		HTMLBody:     htmlBody,
		FromOverride: req.From,
		ChunkSize:    chunkSize,
		Delay:        delay,
	})

	httpjson.Write(w, http.StatusOK, result)
}
