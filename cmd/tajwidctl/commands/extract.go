package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/Brownie44l1/tajwid-api/internal/audio"
	"github.com/Brownie44l1/tajwid-api/internal/feature"
)

var extractRaw bool

type extractOutput struct {
	File         string      `json:"file"`
	SampleRate   int         `json:"sample_rate"`
	Duration     float64     `json:"duration_seconds"`
	Coefficients int         `json:"coefficients"`
	Frames       int         `json:"frames"`
	MFCC         [][]float64 `json:"mfcc"`
}

var extractCmd = &cobra.Command{
	Use:   "extract <file.wav>",
	Short: "Print the MFCC matrix of a WAV file",
	Long: `Decode a WAV file, resample it to the configured rate and print its MFCC
matrix as JSON. By default the matrix is padded or truncated to the model's
frame count; --raw prints every frame.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractRaw, "raw", false, "print the unpadded matrix")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fc, err := featureConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid feature config: %w", err)
	}

	sig, err := audio.Load(args[0], fc.SampleRate)
	if err != nil {
		return &feature.ExtractionError{Err: err}
	}

	var m mat.Matrix
	if extractRaw {
		raw, err := feature.MFCC(sig.Samples, fc)
		if err != nil {
			return &feature.ExtractionError{Err: err}
		}
		m = raw
	} else {
		fixed, err := feature.Extract(sig, fc)
		if err != nil {
			return err
		}
		m = fixed.Raw()
	}

	rows, cols := m.Dims()
	out := extractOutput{
		File:         args[0],
		SampleRate:   sig.SampleRate,
		Duration:     sig.Duration().Seconds(),
		Coefficients: rows,
		Frames:       cols,
		MFCC:         make([][]float64, rows),
	}
	for i := range out.MFCC {
		out.MFCC[i] = mat.Row(nil, i, m)
	}
	return printJSON(cmd.OutOrStdout(), out)
}
