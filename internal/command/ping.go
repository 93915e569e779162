package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPingCmd creates the ping command.
func NewPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Measure round-trip time to the completion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetInt("count")

			t, err := newTransport(cfg)
			if err != nil {
				return err
			}
			defer t.Close()

			for i := 0; i < count; i++ {
				ms, err := t.Ping(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "probe %d: %.2fms\n", i+1, ms)
			}
			return nil
		},
	}
	cmd.Flags().Int("count", 3, "number of probes")
	return cmd
}
