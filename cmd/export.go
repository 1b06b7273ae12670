package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SqueakyMcSqueeze/stocks-pwa/config"
	"github.com/SqueakyMcSqueeze/stocks-pwa/utils"
)

func newExportCmd(getCfg func() *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the spreadsheet report to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := utils.WithRequestID(cmd.Context(), "")

			a, err := newApp(ctx, getCfg())
			if err != nil {
				return err
			}
			defer a.Close()

			file, err := a.reports.Generate(ctx)
			if err != nil {
				return err
			}

			if output == "" {
				output = file.Name
			}
			if err = os.WriteFile(output, file.Data, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "report written to %s (%d bytes)\n", output, len(file.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default portfolio-YYYY-MM-DD.xlsx)")

	return cmd
}
