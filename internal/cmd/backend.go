package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Digital-Shane/show-onboard/internal/config"
	"github.com/Digital-Shane/show-onboard/internal/indexer"
	"github.com/Digital-Shane/show-onboard/internal/indexer/remote"
	"github.com/Digital-Shane/show-onboard/internal/provider/builtin"
)

// newBackend picks the wizard's collaborators. A configured server answers
// every call and receives the form; otherwise the bundled providers answer
// in process and the submitter is nil. timeout is the merged search timeout.
func newBackend(cfg *config.Config, timeout time.Duration, logger zerolog.Logger) (indexer.Service, indexer.Submitter, error) {
	if cfg.ServerURL != "" {
		client := remote.NewClient(remote.Config{
			BaseURL: cfg.ServerURL,
			APIKey:  cfg.ServerAPIKey,
			Timeout: timeout,
		}, logger)
		return client, client, nil
	}

	registry, err := builtin.Load(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load providers: %w", err)
	}
	return indexer.NewLocal(registry, cfg.CacheTTL(), logger), nil, nil
}
