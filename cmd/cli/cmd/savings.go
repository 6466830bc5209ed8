package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"elbyte/core/output"
	"elbyte/core/savings"
	"elbyte/core/types"
	"elbyte/internal/config"
)

var savingsBillPath string

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Estimate savings on the low-cost reference plan",
	Long: `Estimate how much a household would save by switching from the plan
on its bill to the low-cost reference plan.

The bill file is the JSON produced by the bill parser, for example:

  {"elnatCost": 500, "elhandelCost": 700, "extraFeesTotal": 100,
   "totalAmount": 1300, "totalKWh": 500, "period": "2026-07"}`,
	RunE: runSavings,
}

func init() {
	rootCmd.AddCommand(savingsCmd)
	savingsCmd.Flags().StringVarP(&savingsBillPath, "bill", "b", "", "path to the parsed bill JSON [REQUIRED]")
	savingsCmd.MarkFlagRequired("bill")
}

func runSavings(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	bill, err := loadBill(savingsBillPath)
	if err != nil {
		return err
	}

	calculator, err := calculatorFromConfig(config.Get().Savings)
	if err != nil {
		return err
	}

	result, err := calculator.Compute(bill)
	if err != nil {
		return err
	}
	return output.RenderSavings(os.Stdout, format, result)
}

// loadBill reads a parsed bill and reconciles its fee totals
func loadBill(path string) (*types.BillData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bill: %w", err)
	}
	var bill types.BillData
	if err := json.Unmarshal(data, &bill); err != nil {
		return nil, fmt.Errorf("parse bill: %w", err)
	}
	bill.ReconcileFees()
	return &bill, nil
}

func calculatorFromConfig(cfg config.SavingsConfig) (*savings.Calculator, error) {
	if cfg.ReferenceEnergyRate == "" && cfg.MinimalMonthlyFee == "" {
		return savings.NewCalculator(), nil
	}
	rate, err := decimal.NewFromString(cfg.ReferenceEnergyRate)
	if err != nil {
		return nil, fmt.Errorf("reference energy rate: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.MinimalMonthlyFee)
	if err != nil {
		return nil, fmt.Errorf("minimal monthly fee: %w", err)
	}
	return savings.NewCalculatorWithReference(rate, fee), nil
}
