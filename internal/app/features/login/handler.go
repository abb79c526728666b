// internal/app/features/login/handler.go
package login

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ucek-sih/internals-portal/internal/app/store/oauthstate"
	"github.com/ucek-sih/internals-portal/internal/app/system/auth"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
)

// Handler serves sign-in and sign-out. Participants authenticate with
// Google; the admin account uses configured credentials.
type Handler struct {
	States *oauthstate.Store
	Log    *zap.Logger

	AdminEmail        string
	AdminPasswordHash string // bcrypt

	// Google-authenticated emails granted the admin role.
	AdminAllowlist []string

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. https://sih.example.edu/api/auth/google/callback
}

// NewHandler creates a new login Handler.
func NewHandler(states *oauthstate.Store, adminEmail, adminPasswordHash string, adminAllowlist []string, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		States:            states,
		Log:               logger,
		AdminEmail:        adminEmail,
		AdminPasswordHash: adminPasswordHash,
		AdminAllowlist:    adminAllowlist,
		ClientID:          clientID,
		ClientSecret:      clientSecret,
		RedirectURL:       strings.TrimRight(baseURL, "/") + "/api/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured reports whether Google sign-in can work.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin signs in the admin account with configured credentials.
// The response never says which half of the pair was wrong.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.AdminEmail == "" || h.AdminPasswordHash == "" ||
		email != strings.ToLower(h.AdminEmail) ||
		bcrypt.CompareHashAndPassword([]byte(h.AdminPasswordHash), []byte(req.Password)) != nil {
		h.Log.Warn("admin login rejected", zap.String("email", email))
		httpjson.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	u := &auth.SessionUser{
		ID:    email,
		Name:  "Administrator",
		Email: email,
		Role:  "admin",
	}
	if err := auth.SignIn(w, r, u); err != nil {
		h.Log.Error("admin login: session save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create session")
		return
	}

	h.Log.Info("admin signed in", zap.String("email", email))
	httpjson.Write(w, http.StatusOK, map[string]any{"ok": true, "user": u})
}

// ServeGoogleLogin starts the Google OAuth flow.
func (h *Handler) ServeGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		httpjson.Error(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("generate OAuth state failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not start sign-in")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "save oauth state")
	defer cancel()

	returnURL := r.URL.Query().Get("return")
	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.States.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("save OAuth state failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not start sign-in")
		return
	}
	if _, err := h.States.PurgeExpired(ctx); err != nil {
		h.Log.Warn("purge expired OAuth states failed", zap.Error(err))
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// googleUserInfo is the shape of Google's userinfo endpoint response.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// ServeGoogleCallback finishes the OAuth flow and signs the user in.
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth denied", zap.String("error", errParam))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "consume oauth state")
	defer cancel()

	returnURL, valid, err := h.States.Consume(ctx, state)
	if err != nil {
		h.Log.Error("validate OAuth state failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}
	token, err := h.oauth2Config().Exchange(r.Context(), code)
	if err != nil {
		h.Log.Error("OAuth code exchange failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	info, err := fetchGoogleUserInfo(r, token)
	if err != nil {
		h.Log.Error("fetch Google user info failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}

	email := strings.ToLower(info.Email)
	u := &auth.SessionUser{
		ID:    email,
		Name:  info.Name,
		Email: email,
		Role:  h.roleFor(email),
	}
	if err := auth.SignIn(w, r, u); err != nil {
		h.Log.Error("google login: session save failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	h.Log.Info("user signed in via Google",
		zap.String("email", email),
		zap.String("role", u.Role))

	dest := "/"
	if strings.HasPrefix(returnURL, "/") && !strings.HasPrefix(returnURL, "//") {
		dest = returnURL
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// roleFor grants admin to the configured admin email and allow-listed
// addresses; everyone else is a participant.
func (h *Handler) roleFor(email string) string {
	if email == strings.ToLower(h.AdminEmail) && email != "" {
		return "admin"
	}
	for _, allowed := range h.AdminAllowlist {
		if email == strings.ToLower(strings.TrimSpace(allowed)) {
			return "admin"
		}
	}
	return "participant"
}

// ServeLogout ends the session.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("logout: session clear failed", zap.Error(err))
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"ok": true})
}

// ServeMe returns the signed-in user, for the frontend session check.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Write(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"authenticated": true, "user": u})
}

func fetchGoogleUserInfo(r *http.Request, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(r.Context(), oauth2.StaticTokenSource(token))
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}

// generateState creates a cryptographically secure random state token.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
