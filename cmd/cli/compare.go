package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reinocalc/internal/app"
	"reinocalc/internal/calculator"
	"reinocalc/internal/currency"
	"reinocalc/internal/debounce"
	"reinocalc/internal/domain"
	"reinocalc/internal/metrics"
	"reinocalc/internal/stepgate"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var errMalformedAllocation = errors.New(`allocation must look like "Category:Product=value"`)

type allocationArg struct {
	Key   domain.AssetKey
	Value decimal.Decimal
}

func parseAllocationArg(raw string) (*allocationArg, error) {
	keyPart, valuePart, ok := strings.Cut(raw, "=")
	if !ok {
		return nil, fmt.Errorf("%w: %q", errMalformedAllocation, raw)
	}
	category, product, ok := strings.Cut(keyPart, ":")
	if !ok || strings.TrimSpace(category) == "" || strings.TrimSpace(product) == "" {
		return nil, fmt.Errorf("%w: %q", errMalformedAllocation, raw)
	}
	value, err := decimal.NewFromString(strings.TrimSpace(valuePart))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", errMalformedAllocation, raw, err)
	}
	return &allocationArg{
		Key:   domain.NewAssetKey(strings.TrimSpace(category), strings.TrimSpace(product)),
		Value: value,
	}, nil
}

type compareOutput struct {
	Status     domain.AllocationStatus    `json:"status"`
	Comparison *calculator.ComparisonView `json:"comparison"`
	Warnings   []string                   `json:"warnings,omitempty"`
}

func newCompareCommand(cliCtx *cliContext) *cobra.Command {
	var (
		patrimony   string
		allocations []string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare annual costs for a patrimony and its allocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := runCompare(cliCtx, patrimony, allocations)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&patrimony, "patrimony", "", "total patrimony, plain or formatted (\"1.000.000,00\")")
	cmd.Flags().StringArrayVar(&allocations, "alloc", nil, `allocation as "Category:Product=value", repeatable`)
	cmd.MarkFlagRequired("patrimony")
	return cmd
}

func runCompare(cliCtx *cliContext, patrimony string, allocations []string) (*compareOutput, error) {
	values, err := parsePatrimonies([]string{patrimony})
	if err != nil {
		return nil, err
	}
	args := make([]allocationArg, 0, len(allocations))
	for _, raw := range allocations {
		a, err := parseAllocationArg(raw)
		if err != nil {
			return nil, err
		}
		args = append(args, *a)
	}

	steps, err := stepgate.LoadSteps()
	if err != nil {
		return nil, err
	}
	m, err := metrics.New("reino_cli")
	if err != nil {
		return nil, err
	}
	calc, err := app.NewCalculator(app.Dependencies{
		Fees:    cliCtx.fees,
		Steps:   steps,
		Metrics: m,
		// nothing is debounced in a one-shot run
		Clock: debounce.NewManualClock(),
		Log:   cliCtx.log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator: %w", err)
	}
	defer calc.Close()

	calc.CommitPatrimony(currency.Format(values[0]))
	warnings := []string{}
	for _, a := range args {
		if _, err := calc.SetSelected(a.Key, true); err != nil {
			return nil, err
		}
		v := a.Value
		result, err := calc.SetAllocation(app.AllocationRequest{Key: a.Key, Value: &v})
		if err != nil {
			return nil, err
		}
		if result.Message != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", a.Key, result.Message))
		}
	}

	view, err := calculator.BuildComparisonView(calc.Comparison())
	if err != nil {
		return nil, err
	}
	vm, err := calc.View()
	if err != nil {
		return nil, err
	}

	return &compareOutput{
		Status:     vm.Status.AllocationStatus,
		Comparison: view,
		Warnings:   warnings,
	}, nil
}
