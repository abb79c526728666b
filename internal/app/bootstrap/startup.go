// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/ucek-sih/internals-portal/internal/app/resources/problems"
)

// Startup runs one-time initialization after DB connect and schema
// setup, before the HTTP handler is built.
//
// The problem-statement catalog is embedded in the binary; parsing it
// here means a malformed catalog aborts startup instead of surfacing
// as request-time errors.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	cat, err := problems.Load()
	if err != nil {
		logger.Error("problem-statement catalog load failed", zap.Error(err))
		return err
	}

	logger.Info("problem-statement catalog loaded",
		zap.Int("statements", len(cat.Statements)),
		zap.Int("categories", len(cat.Categories)))
	return nil
}
