package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// AdminBootstrapper provisions the administrator account
type AdminBootstrapper interface {
	BootstrapAdmin(ctx context.Context) error
}

// EnsureAdmin provisions the admin account once during startup.
// A failure aborts startup since no one could manage students without it.
func EnsureAdmin(ctx context.Context, bootstrapper AdminBootstrapper, lgr zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Ensuring admin account exists...")
	if err := bootstrapper.BootstrapAdmin(ctx); err != nil {
		lgr.Error().Err(err).Msg("Error bootstrapping admin account")
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}
	lgr.Info().Msg("Admin account ready.")
	return nil
}
