package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"elbyte/core/catalog"
	"elbyte/core/compare"
	"elbyte/core/output"
	"elbyte/core/types"
	"elbyte/db"
	"elbyte/internal/config"
)

var (
	compareBillPath     string
	compareProviderPath string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare supplier offers against a bill",
	Long: `Rank supplier offers by estimated monthly savings against the bill's
declared total.

Providers come from a JSON catalog file or, when --providers is not
given, from the configured store.`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVarP(&compareBillPath, "bill", "b", "", "path to the parsed bill JSON [REQUIRED]")
	compareCmd.Flags().StringVarP(&compareProviderPath, "providers", "p", "", "path to a provider catalog JSON file")
	compareCmd.MarkFlagRequired("bill")
}

func runCompare(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	bill, err := loadBill(compareBillPath)
	if err != nil {
		return err
	}

	var providers []types.ElectricityProvider
	if compareProviderPath != "" {
		providers, err = catalog.LoadFile(compareProviderPath)
		if err != nil {
			return err
		}
	} else {
		ctx := context.Background()
		store, err := db.Open(ctx, config.Get().Store)
		if err != nil {
			return err
		}
		defer store.Close()
		providers, err = store.ListProviders(ctx)
		if err != nil {
			return err
		}
	}

	result, err := compare.NewComparator().Compare(bill, providers)
	if err != nil {
		return err
	}
	return output.RenderComparison(os.Stdout, format, result)
}
