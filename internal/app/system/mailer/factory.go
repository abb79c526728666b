// internal/app/system/mailer/factory.go
package mailer

import (
	"sync"

	"go.uber.org/zap"
)

// Factory constructs the process-wide Mailer lazily on first use and
// reuses it afterwards. Construction is guarded so concurrent first
// callers share a single instance; a configuration error is sticky and
// returned to every caller until the process restarts with fixed
// settings.
type Factory struct {
	cfg Config
	log *zap.Logger

	once sync.Once
	m    *Mailer
	err  error
}

// NewFactory wraps the SMTP config without validating it yet; bad
// configuration only surfaces when something actually tries to send.
func NewFactory(cfg Config, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, log: logger}
}

// Get returns the shared Mailer, constructing it on first call.
func (f *Factory) Get() (*Mailer, error) {
	f.once.Do(func() {
		f.m, f.err = New(f.cfg, f.log)
		if f.err != nil {
			f.log.Error("mail transport construction failed", zap.Error(f.err))
		}
	})
	return f.m, f.err
}
