package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"reinocalc/internal/currency"
	"reinocalc/internal/feetable"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTiersCommand(cliCtx *cliContext) *cobra.Command {
	var (
		asCsv       bool
		patrimonies []string
	)

	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Simulate the Reino fee over sample patrimonies",
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePatrimonies(patrimonies)
			if err != nil {
				return err
			}
			simulations := cliCtx.fees.Simulate(values...)
			if asCsv {
				return gocsv.Marshal(simulations, cmd.OutOrStdout())
			}
			return writeTiersTable(cmd.OutOrStdout(), simulations)
		},
	}

	cmd.Flags().BoolVar(&asCsv, "csv", false, "write csv instead of a table")
	cmd.Flags().StringArrayVar(&patrimonies, "patrimony", nil, "patrimony to simulate, repeatable; defaults to the configured samples")
	return cmd
}

func parsePatrimonies(raw []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(raw))
	for _, r := range raw {
		v, err := decimal.NewFromString(r)
		if err != nil {
			v = currency.Parse(r)
		}
		if !v.IsPositive() {
			return nil, fmt.Errorf("invalid patrimony %q", r)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeTiersTable(w io.Writer, simulations []feetable.TierSimulation) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATRIMÔNIO\tFAIXA\tANUAL\tMENSAL\tDESCRIÇÃO")
	for _, s := range simulations {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			currency.FormatBRL(s.Patrimony),
			s.BracketLabel,
			currency.FormatBRL(s.AnnualCost),
			currency.FormatBRL(s.MonthlyCost),
			s.Description,
		)
	}
	return tw.Flush()
}
