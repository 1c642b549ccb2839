// Command update-dataset builds and checks the bundled address dataset.
//
// Usage:
//
//	go run ./cmd/update-dataset convert --input source.geojson --city Arlington --state VA --output data/addresses-us-all.json --merge data/addresses-us-all.json
//	go run ./cmd/update-dataset minify --input data/addresses-us-all.json --output data/addresses-us-all.min.json
//	go run ./cmd/update-dataset validate --file data/addresses-us-all.min.json
//
// The minified file is the one embedded into the realaddress package.
package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg *Config

var rootCmd = &cobra.Command{
	Use:   "update-dataset",
	Short: "Build and validate the bundled address dataset",
	Long:  "Converts line-delimited GeoJSON address points into the realaddress dataset format, minifies it for embedding, and validates the result.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(cmd.Flags())
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console or json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
