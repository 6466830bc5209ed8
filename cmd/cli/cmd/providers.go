package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"elbyte/core/catalog"
	"elbyte/db"
	"elbyte/internal/config"
)

var providersImportPath string

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Manage the provider catalog",
	RunE:  runProvidersList,
}

var providersImportCmd = &cobra.Command{
	Use:   "import <catalog-file>",
	Short: "Import providers from a catalog file",
	Long: `Import providers from a JSON catalog file into the configured store.

Existing providers with the same id are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runProvidersImport,
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.AddCommand(providersImportCmd)
}

func runProvidersList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, err := db.Open(ctx, config.Get().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	providers, err := store.ListProviders(ctx)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(providers)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENERGY PRICE\tMONTHLY FEE\tCONTRACT MONTHS\tACTIVE")
	for _, p := range providers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n",
			p.Name, p.EnergyPrice.StringFixed(2), p.MonthlyFee.StringFixed(2), p.ContractLength, p.IsActive)
	}
	return w.Flush()
}

func runProvidersImport(cmd *cobra.Command, args []string) error {
	providers, err := catalog.LoadFile(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := db.Open(ctx, config.Get().Store)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := catalog.Import(ctx, store, providers)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d providers\n", count)
	return nil
}
