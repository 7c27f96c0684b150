package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/tajwid-api/internal/feature"
	"github.com/Brownie44l1/tajwid-api/internal/handlers"
	"github.com/Brownie44l1/tajwid-api/internal/model"
)

var (
	predictTeks  string
	predictModel string
)

var predictCmd = &cobra.Command{
	Use:   "predict <file.wav>",
	Short: "Classify a recording and print the feedback",
	Long: `Run a WAV file through feature extraction and the ONNX classifier and
print the same JSON body the /predict endpoint returns.`,
	Args: cobra.ExactArgs(1),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&predictTeks, "teks", "t", "", "target text echoed in the result")
	predictCmd.Flags().StringVarP(&predictModel, "model", "m", "", "ONNX model path (overrides config)")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if predictModel != "" {
		cfg.Model.Path = predictModel
	}
	fc, err := featureConfig(cfg)
	if err != nil {
		return err
	}

	srv, err := model.NewServer(cfg.Model)
	if err != nil {
		return err
	}
	defer srv.Close()
	if err := srv.Metadata.CheckFeatures(fc.NumCoefficients, fc.MaxFrames); err != nil {
		return err
	}

	features, err := feature.ExtractFile(args[0], fc)
	if err != nil {
		return err
	}
	pred, err := model.Predict(srv, features, srv.Metadata.Classes)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), handlers.NewPredictResponse(pred, strings.TrimSpace(predictTeks)))
}
