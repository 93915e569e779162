package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsiddharth/autocomplete-demo/internal/config"
	"github.com/dsiddharth/autocomplete-demo/internal/editor"
)

// NewEditCmd creates the edit command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			t, err := newTransport(cfg)
			if err != nil {
				return err
			}
			defer t.Close()

			opts := editor.Options{Client: cfg.Client}

			// Live-reload the prompt and generation parameters when the
			// config file changes under a running editor.
			if cfgPath != "" {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				if updates, err := config.Watch(ctx, cfgPath); err == nil {
					opts.ConfigUpdates = updates
				}
			}

			text, err := editor.Run(t, opts)
			if err != nil {
				return err
			}
			if text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
	return cmd
}
