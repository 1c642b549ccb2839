package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreiashu/realaddress"
)

var minifyCmd = &cobra.Command{
	Use:   "minify",
	Short: "Re-serialize a dataset with compact separators",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")

		in, err := os.Open(input)
		if err != nil {
			return eris.Wrapf(err, "minify: open %s", input)
		}
		defer in.Close()

		err = writeOutput(output, cmd.OutOrStdout(), func(w io.Writer) error {
			return realaddress.Minify(in, w)
		})
		if err != nil {
			return eris.Wrap(err, "minify")
		}

		zap.L().Info("minified dataset", zap.String("input", input), zap.String("output", output))
		return nil
	},
}

func init() {
	minifyCmd.Flags().String("input", "addresses-us-all.json", "dataset file to minify")
	minifyCmd.Flags().String("output", "addresses-us-all.min.json", "minified output file (- for stdout)")
	rootCmd.AddCommand(minifyCmd)
}
