package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreiashu/realaddress"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert line-delimited GeoJSON address points to dataset JSON",
	Long: "Reads one GeoJSON Feature per line (number, street, unit, postcode properties and a Point geometry), " +
		"stamps the configured city and state on each record, and writes a dataset document.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		merge, _ := cmd.Flags().GetString("merge")
		keepDup, _ := cmd.Flags().GetBool("keep-duplicates")

		loc := realaddress.Locality{
			City:  strings.TrimSpace(cfg.Convert.City),
			State: strings.ToUpper(strings.TrimSpace(cfg.Convert.State)),
		}
		if loc.City == "" || loc.State == "" {
			return eris.New("convert: --city and --state are required")
		}
		if !realaddress.IsStateCode(loc.State) {
			return eris.Errorf("convert: unknown state code %q", loc.State)
		}

		log := zap.L().With(zap.String("command", "convert"))

		in, err := os.Open(input)
		if err != nil {
			return eris.Wrapf(err, "convert: open %s", input)
		}
		defer in.Close()

		addrs, stats, err := realaddress.ConvertGeoJSON(in, loc, realaddress.ConvertOptions{
			Sample:         cfg.Convert.Sample,
			KeepDuplicates: keepDup,
		})
		if err != nil {
			return eris.Wrap(err, "convert")
		}
		log.Info("converted features",
			zap.Int("lines", stats.Lines),
			zap.Int("skipped", stats.Skipped),
			zap.Int("duplicates", stats.Duplicates),
			zap.Int("written", stats.Written),
		)

		if merge != "" {
			existing, err := realaddress.NewDataset(realaddress.WithFile(merge))
			if err != nil {
				return eris.Wrap(err, "convert: load merge target")
			}
			before := existing.Len()
			addrs = realaddress.MergeAddresses(existing.Addresses(), addrs)
			log.Info("merged into existing dataset",
				zap.String("merge", merge),
				zap.Int("existing", before),
				zap.Int("total", len(addrs)),
			)
		}

		err = writeOutput(output, cmd.OutOrStdout(), func(w io.Writer) error {
			return realaddress.WriteDataset(w, addrs, cfg.Convert.Pretty)
		})
		if err != nil {
			return eris.Wrap(err, "convert")
		}

		if output != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "%d converted addresses\n", stats.Written)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("input", "source.geojson", "line-delimited GeoJSON source file")
	convertCmd.Flags().String("output", "addresses.json", "output dataset file (- for stdout)")
	convertCmd.Flags().String("merge", "", "existing dataset file to merge the converted records into")
	convertCmd.Flags().String("city", "", "city stamped on every converted record")
	convertCmd.Flags().String("state", "", "two-letter state code stamped on every converted record")
	convertCmd.Flags().Int("sample", 0, "keep a uniform random sample of this many records (0 = all)")
	convertCmd.Flags().Bool("pretty", true, "indent the output JSON")
	convertCmd.Flags().Bool("keep-duplicates", false, "do not drop duplicate address points")
	rootCmd.AddCommand(convertCmd)
}
