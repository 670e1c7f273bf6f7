package backend

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/aionx/connect-dashboard/backend/rest"
	"github.com/aionx/connect-dashboard/backend/sqlite"
	"github.com/aionx/connect-dashboard/internal/config"
)

// FromConfig selects the backend implementation once at startup.
func FromConfig(cfg config.Config, log zerolog.Logger) (Client, error) {
	switch driver := cfg.GetBackendDriver(); driver {
	case "rest":
		if cfg.GetBackendURL() == "" || cfg.GetBackendAnonKey() == "" {
			log.Warn().Msg("rest backend selected but URL or key missing, running unconfigured")
			return NewUnconfigured(), nil
		}
		client, err := rest.New(cfg.GetBackendURL(), cfg.GetBackendAnonKey(), rest.WithLogger(log))
		if err != nil {
			return nil, errors.Wrap(err, "[FromConfig] rest.New")
		}
		return client, nil

	case "sqlite":
		client, err := sqlite.Open(cfg.GetSQLitePath(), sqlite.WithLogger(log))
		if err != nil {
			return nil, errors.Wrap(err, "[FromConfig] sqlite.Open")
		}
		return client, nil

	case "":
		log.Warn().Msg("no backend configured, all calls will return a not-configured error")
		return NewUnconfigured(), nil

	default:
		return nil, errors.Errorf("[FromConfig] unknown backend driver %q", driver)
	}
}
