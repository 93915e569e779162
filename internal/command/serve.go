package command

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dsiddharth/autocomplete-demo/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the completion relay service",
		Long:  "Serve accepts editor requests over HTTP and a persistent stream, forwards them to an OpenAI-compatible upstream, and caches results.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
				cfg.Server.ListenAddr = listen
			}
			if upstream, _ := cmd.Flags().GetString("upstream"); upstream != "" {
				cfg.Server.UpstreamURL = upstream
			}
			noStream, _ := cmd.Flags().GetBool("no-stream")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg.Server)
			defer srv.Close()

			group, ctx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return srv.ListenAndServe(ctx)
			})
			if !noStream && cfg.Server.StreamAddr != "" {
				group.Go(func() error {
					return srv.ListenAndServeStream(ctx)
				})
			}
			return group.Wait()
		},
	}
	cmd.Flags().String("listen", "", "HTTP listen address (overrides config)")
	cmd.Flags().String("upstream", "", "upstream completions URL (overrides config)")
	cmd.Flags().Bool("no-stream", false, "disable the stream listener")
	return cmd
}
