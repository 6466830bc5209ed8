// Package output renders savings, comparison and tariff results for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"elbyte/core/compare"
	"elbyte/core/types"
	"elbyte/db"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable rendering
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat validates a format flag value
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", value)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderSavings writes a savings calculation
func RenderSavings(w io.Writer, format Format, result *types.SavingsCalculation) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Current monthly cost:\t%s kr\n", result.CurrentCost)
	fmt.Fprintf(tw, "Cheapest alternative:\t%s kr\n", result.CheapestAlternative)
	fmt.Fprintf(tw, "Potential savings:\t%s kr (%s%%)\n", result.PotentialSavings, result.SavingsPercentage)
	return tw.Flush()
}

// RenderComparison writes a provider comparison
func RenderComparison(w io.Writer, format Format, result *compare.Result) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	fmt.Fprintf(w, "Current monthly cost: %s kr\n", result.CurrentCost)
	fmt.Fprintf(w, "Providers compared: %d, recommended: %d\n\n", result.TotalProviders, result.RecommendedCount)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tEST. COST\tEST. SAVINGS\tRECOMMENDED")
	for _, comparison := range result.Comparisons {
		recommended := ""
		if comparison.IsRecommended {
			recommended = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s kr\t%s kr\t%s\n",
			comparison.Provider.Name,
			comparison.EstimatedMonthlyCost,
			comparison.EstimatedSavings,
			recommended)
	}
	return tw.Flush()
}

// RenderTariff writes a normalized tariff with its provenance
func RenderTariff(w io.Writer, format Format, tariff *types.NormalizedTariff) error {
	if format == FormatJSON {
		return writeJSON(w, tariff)
	}

	if !tariff.Matched() {
		fmt.Fprintf(w, "No applicable tariff found for %s in %s\n", tariff.Supplier, tariff.Area)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Supplier:\t%s\n", tariff.Supplier)
	fmt.Fprintf(tw, "Area:\t%s\n", tariff.Area)
	fmt.Fprintf(tw, "Consumption range:\t%s - %s kWh\n", tariff.Range.Min, tariff.Range.Max)
	fmt.Fprintf(tw, "Energy price:\t%s kr/kWh\n", tariff.EnergyPrice)
	fmt.Fprintf(tw, "Surcharge:\t%s kr/kWh\n", tariff.Surcharge)
	fmt.Fprintf(tw, "Monthly fee:\t%s kr\n", tariff.MonthlyFee)
	fmt.Fprintf(tw, "Total incl. VAT:\t%s kr/kWh\n", tariff.TotalWithVat)
	if tariff.Provenance == types.ProvenanceCache && tariff.CachedAt != nil {
		fmt.Fprintf(tw, "Source:\tcache (%s)\n", tariff.CachedAt.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintf(tw, "Source:\t%s\n", tariff.Provenance)
	}
	return tw.Flush()
}

// RenderCache writes the persisted cache listing
func RenderCache(w io.Writer, format Format, entries []db.CachedTariff) error {
	if format == FormatJSON {
		return writeJSON(w, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "Tariff cache is empty")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SUPPLIER\tAREA\tTOTAL (VAT)\tUPDATED")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s kr/kWh\t%s\n",
			entry.SupplierKey,
			entry.Area,
			entry.Tariff.TotalWithVat,
			entry.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
