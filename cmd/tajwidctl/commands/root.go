package commands

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/tajwid-api/internal/config"
	"github.com/Brownie44l1/tajwid-api/internal/feature"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tajwidctl",
	Short: "Offline tools for the tajwid recitation classifier",
	Long: `tajwidctl - run the tajwid feature extractor and classifier without the HTTP server.

Settings come from the same YAML file and TAJWID_* environment variables
as the server.

Examples:
  # Inspect the features the model would see
  tajwidctl extract recitation.wav

  # Classify a recording against its target text
  tajwidctl predict recitation.wav --teks "bismillah"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

func featureConfig(cfg config.Config) (feature.Config, error) {
	fc := feature.DefaultConfig()
	fc.SampleRate = cfg.Feature.SampleRate
	fc.NumCoefficients = cfg.Feature.NumCoefficients
	fc.MaxFrames = cfg.Feature.MaxFrames
	return fc, fc.Validate()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
