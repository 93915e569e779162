package command

import (
	"github.com/spf13/cobra"

	"github.com/dsiddharth/autocomplete-demo/internal/config"
	"github.com/dsiddharth/autocomplete-demo/internal/transport"
)

// loadConfig resolves the config for a command, honoring --config.
// Returns the config and the path it was loaded from ("" for builtin
// defaults).
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.LoadWithPriority(path)
}

// newTransport builds the configured transport strategy.
func newTransport(cfg *config.Config) (transport.Transport, error) {
	return transport.New(cfg.Client.Transport, cfg.Client.ServiceURL, cfg.Client.StreamAddr)
}
