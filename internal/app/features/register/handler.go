// internal/app/features/register/handler.go
package register

import (
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	participantstore "github.com/ucek-sih/internals-portal/internal/app/store/participants"
	"github.com/ucek-sih/internals-portal/internal/app/system/authz"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/mailer"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
	"github.com/ucek-sih/internals-portal/internal/domain/models"
)

// Handler serves participant registration.
type Handler struct {
	Participants *participantstore.Store
	Mail         *mailer.Factory
	SiteName     string
	Log          *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler creates a new register Handler.
func NewHandler(participants *participantstore.Store, mail *mailer.Factory, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		Participants: participants,
		Mail:         mail,
		SiteName:     siteName,
		Log:          logger,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

type registerRequest struct {
	Name   string            `json:"name"`
	Gender string            `json:"gender"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ServeRegister upserts the caller's registration. Re-registering
// updates the profile in place; the confirmation email goes out only
// on first registration and is best-effort.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(h.sanitizer.Sanitize(req.Name))
	if name == "" {
		httpjson.Error(w, http.StatusBadRequest, "Name is required")
		return
	}

	fields := make(map[string]string, len(req.Fields))
	for k, v := range req.Fields {
		key := strings.TrimSpace(h.sanitizer.Sanitize(k))
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(h.sanitizer.Sanitize(v))
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register participant")
	defer cancel()

	_, err := h.Participants.GetByUserID(ctx, userID)
	firstRegistration := err == mongo.ErrNoDocuments
	if err != nil && err != mongo.ErrNoDocuments {
		h.Log.Error("register: lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	saved, err := h.Participants.Upsert(ctx, models.Participant{
		UserID: userID,
		Email:  userID,
		Name:   name,
		Gender: strings.TrimSpace(h.sanitizer.Sanitize(req.Gender)),
		Fields: fields,
	})
	if err != nil {
		h.Log.Error("register: upsert failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	if firstRegistration {
		h.sendConfirmation(saved)
	}

	h.Log.Info("participant registered",
		zap.String("user_id", userID),
		zap.Bool("first", firstRegistration))
	httpjson.Write(w, http.StatusOK, saved)
}

// sendConfirmation emails the registration confirmation. Failures are
// logged, never surfaced; registration already succeeded.
func (h *Handler) sendConfirmation(p models.Participant) {
	m, err := h.Mail.Get()
	if err != nil {
		h.Log.Warn("registration email skipped, mail not configured", zap.Error(err))
		return
	}

	msg := mailer.BuildRegistrationEmail(mailer.RegistrationEmailData{
		SiteName: h.SiteName,
		Name:     p.Name,
	})
	msg.To = []string{p.Email}
	if err := m.Send(msg); err != nil {
		h.Log.Warn("registration email failed",
			zap.String("email", p.Email), zap.Error(err))
	}
}

// ServeGetRegistration returns the caller's registration, or 404 when
// they have not registered yet.
func (h *Handler) ServeGetRegistration(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get registration")
	defer cancel()

	p, err := h.Participants.GetByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "Not registered")
		return
	}
	if err != nil {
		h.Log.Error("get registration failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}
