package main

import (
	"fmt"
	"os"

	"reinocalc/internal/feetable"
	"reinocalc/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cliContext struct {
	fees *feetable.Tables
	log  *zap.SugaredLogger
}

func newRootCommand() *cobra.Command {
	cliCtx := &cliContext{}

	root := &cobra.Command{
		Use:           "reino",
		Short:         "Fee comparison between the traditional model and Reino",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			fees, err := feetable.Load()
			if err != nil {
				return fmt.Errorf("failed to load fee tables: %w", err)
			}
			cliCtx.fees = fees
			cliCtx.log = logger.New()
			return nil
		},
	}

	root.AddCommand(newTiersCommand(cliCtx))
	root.AddCommand(newCompareCommand(cliCtx))
	return root
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
