package commands

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/spf13/cobra"
)

func ratesCmd(a *app) *cobra.Command {
	var (
		all    bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Fetch the currency rate table and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, closeSink := a.rateProvider()
			defer closeSink()

			provider.Start(cmd.Context())
			snap, err := provider.Wait(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			fmt.Fprintln(out, snap.Status)
			codes := domain.SupportedCurrencies
			if all {
				codes = slices.Sorted(maps.Keys(snap.Rates))
			}
			for _, code := range codes {
				rate, ok := snap.Rates[code]
				if !ok {
					fmt.Fprintf(out, "%s  %12s\n", code, "n/a")
					continue
				}
				fmt.Fprintf(out, "%s  %12.4f\n", code, rate)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every currency in the table, not only the supported ones")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full snapshot as JSON")
	return cmd
}
