package command

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewCompleteCmd creates the complete command: a one-shot completion of
// text given on the command line or stdin.
func NewCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete [text...]",
		Short: "Fetch suggestions for a snippet of text",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if text == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no input text")
			}

			t, err := newTransport(cfg)
			if err != nil {
				return err
			}
			defer t.Close()

			start := time.Now()
			result, err := t.Send(cmd.Context(), cfg.Client.Request(text))
			if err != nil {
				return err
			}
			elapsed := float64(time.Since(start)) / float64(time.Millisecond)

			out := cmd.OutOrStdout()
			if len(result.Suggestions) == 0 {
				fmt.Fprintln(out, "(no suggestions)")
			}
			for i, suggestion := range result.Suggestions {
				fmt.Fprintf(out, "%d: %q\n", i+1, suggestion)
			}
			fmt.Fprintf(out, "round trip %.2fms, server %.2fms\n", elapsed, result.ServerProcessing)
			if len(result.Suggestions) > 0 {
				fmt.Fprintf(out, "full text: %q\n", strings.TrimRight(text, "\n")+result.Suggestions[0])
			}
			return nil
		},
	}
	return cmd
}
