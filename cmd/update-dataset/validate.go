package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreiashu/realaddress"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a dataset for integrity and sampling correctness",
	Long:  "Loads a dataset file (or the embedded dataset when --file is empty) and runs the integrity and functional checks.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")

		var opts []realaddress.Option
		if file != "" {
			opts = append(opts, realaddress.WithFile(file))
		}
		d, err := realaddress.NewDataset(opts...)
		if err != nil {
			return eris.Wrap(err, "validate")
		}
		if err := realaddress.ValidateDataset(d); err != nil {
			return eris.Wrap(err, "validate")
		}

		sum := d.Summary()
		zap.L().Info("dataset valid",
			zap.Int("addresses", sum.TotalAddresses),
			zap.Int("states", sum.UniqueStates),
			zap.Int("cities", sum.UniqueCities),
			zap.Int("postal_codes", sum.UniquePostalCodes),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "%d addresses, %d states, %d cities, %d postal codes (OK)\n",
			sum.TotalAddresses, sum.UniqueStates, sum.UniqueCities, sum.UniquePostalCodes)
		return nil
	},
}

func init() {
	validateCmd.Flags().String("file", "", "dataset file to validate (default: embedded dataset)")
	rootCmd.AddCommand(validateCmd)
}
