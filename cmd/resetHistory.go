package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

func newResetHistoryCmd(getCfg func() *config.Config) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-history",
		Short: "Delete the whole daily price log",
		Long:  "Delete the whole daily price log. Holdings, quotes and dividends are kept. Requires --yes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.WithRequestID(cmd.Context(), "")

			a, err := newApp(ctx, getCfg())
			if err != nil {
				return err
			}
			defer a.Close()

			if err = a.portfolio.ResetPriceHistory(ctx, yes); err != nil {
				return fmt.Errorf("%w (pass --yes to confirm)", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "price history cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	return cmd
}
