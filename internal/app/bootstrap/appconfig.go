// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, logging); everything specific
// to the registration portal lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Broadcast defaults, overridable per request
	BroadcastChunkSize int
	BroadcastDelay     time.Duration

	// Admin account (credential sign-in)
	AdminEmail        string
	AdminPasswordHash string // bcrypt hash, never the plain password
	// Google-authenticated emails also granted admin (comma separated
	// in config, split in LoadConfig)
	AdminAllowlist []string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Public site identity
	SiteName string
	BaseURL  string // e.g. "https://sih.example.edu"
}
