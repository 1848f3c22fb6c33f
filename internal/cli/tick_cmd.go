package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/contract"
	"github.com/spf13/cobra"
)

func newTickCmd(app *App) *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Refresh SLA counters and overdue flags",
		Long: "Refresh SLA counters and overdue flags for every active submission and open\n" +
			"deadline. With --every the pass repeats until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			run := func() error {
				resp, err := app.tickUseCase().Tick(ctx, contract.TickRequest{})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTick(resp))
				return nil
			}
			if every <= 0 {
				return run()
			}

			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				if err := run(); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().DurationVar(&every, "every", 0, "Repeat at this interval (e.g. 1h)")

	return cmd
}
