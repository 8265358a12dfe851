package commands

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/engine"
	"github.com/spf13/cobra"
)

func lengthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:                "length <value> <from> <to>",
		Short:              "Convert between length units",
		Long:               "Convert between length units.\n\nUnits: " + joinNames(domain.LengthUnits) + " (abbreviations such as m, km, ft, in are accepted).",
		Args:               cobra.ExactArgs(3),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.service(nil).Length(engine.ConversionRequest{Input: args[0], From: args[1], To: args[2]})
			return printResult(cmd, res)
		},
	}
}

func temperatureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:                "temp <value> <from> <to>",
		Aliases:            []string{"temperature"},
		Short:              "Convert between temperature scales",
		Long:               "Convert between temperature scales.\n\nScales: " + joinNames(domain.TemperatureUnits) + " (C, F, K are accepted).",
		Args:               cobra.ExactArgs(3),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.service(nil).Temperature(engine.ConversionRequest{Input: args[0], From: args[1], To: args[2]})
			return printResult(cmd, res)
		},
	}
}

func bmiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bmi <height-m> <weight-kg>",
		Short: "Compute body mass index and its category",

		// Flags are read by splitBMIArgs so that negative values reach the
		// classifier and are reported as out of range.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, details, help := splitBMIArgs(args)
			if help {
				return cmd.Help()
			}
			if len(values) != 2 {
				return fmt.Errorf("accepts 2 arg(s), received %d", len(values))
			}
			res := a.service(nil).BMI(engine.BMIRequest{Height: values[0], Weight: values[1]})
			if !res.OK() {
				return printResult(cmd, res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeBMI(res))
			if details {
				fmt.Fprintf(cmd.OutOrStdout(), "color: %s\nprogress: %.2f\n", res.BMI.Category.Color(), res.BMI.Progress)
			}
			return nil
		},
	}
	cmd.Flags().Bool("details", false, "also print the category color and gauge position")
	return cmd
}

// splitBMIArgs separates the --details and help flags from the positional
// values. Anything else, including "-1", is a value; a "--" separator is dropped.
func splitBMIArgs(args []string) (values []string, details, help bool) {
	for _, arg := range args {
		switch arg {
		case "--details":
			details = true
		case "-h", "--help":
			help = true
		case "--":
		default:
			values = append(values, arg)
		}
	}
	return values, details, help
}

func currencyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "currency <value> <from> <to>",
		Short: "Convert between currencies using live or offline rates",
		Long: "Convert between currencies. Rates are fetched once from the exchange-rate service;\n" +
			"on any failure the built-in offline table is used.\n\nCurrencies: " + joinNames(domain.SupportedCurrencies),
		Args:               cobra.ExactArgs(3),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, closeSink := a.rateProvider()
			defer closeSink()

			provider.Start(cmd.Context())
			snap, err := provider.Wait(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), snap.Status)

			res := a.service(provider).Currency(engine.ConversionRequest{Input: args[0], From: args[1], To: args[2]})
			return printResult(cmd, res)
		},
	}
}

// printResult writes a successful result to stdout, warnings to stderr, and
// turns a failed result into the command error.
func printResult(cmd *cobra.Command, res engine.Result) error {
	for _, w := range res.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	if !res.OK() {
		return fmt.Errorf("%s: %s", res.Category, res.Text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}

func describeBMI(res engine.Result) string {
	return fmt.Sprintf("%s (%s)", res.Text, res.BMI.Category.Label())
}

func joinNames[T fmt.Stringer](items []T) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.String()
	}
	return strings.Join(names, ", ")
}
