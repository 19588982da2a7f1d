package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qft-labs/nupid/internal/model"
)

var (
	applyInput  string
	applyOutput string
)

// mapSetJSON is the on-disk form of a histogram set: bin contents are flat
// in row-major order with respect to the configured binning.
type mapSetJSON struct {
	Name string    `json:"name"`
	Maps []mapJSON `json:"maps"`
}

type mapJSON struct {
	Name string    `json:"name"`
	Hist []float64 `json:"hist"`
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the PID transforms to a histogram set",
	Long: `apply reads per-flavor histograms from a JSON file, weights them into
track and cascade contributions, and writes the recombined histograms with
their trailing classification axis (cascade, track).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := setup()
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(applyInput)
		if err != nil {
			return err
		}
		var in mapSetJSON
		if err := json.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("parsing %s: %w", applyInput, err)
		}

		inputs := model.MapSet{Name: in.Name}
		for _, m := range in.Maps {
			mm := model.Map{Name: m.Name, Binning: st.InputBinning(), Hist: m.Hist}
			if err := mm.Validate(); err != nil {
				return err
			}
			inputs.Maps = append(inputs.Maps, mm)
		}

		outputs, err := st.Outputs(inputs)
		if err != nil {
			return err
		}

		out := mapSetJSON{Name: outputs.Name}
		for _, m := range outputs.Maps {
			out.Maps = append(out.Maps, mapJSON{Name: m.Name, Hist: m.Hist})
		}
		enc, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		if applyOutput == "-" {
			_, err = os.Stdout.Write(append(enc, '\n'))
			return err
		}
		return os.WriteFile(applyOutput, append(enc, '\n'), 0o644)
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyInput, "input", "i", "", "input histogram set (JSON)")
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "-", "output file, - for stdout")
	_ = applyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(applyCmd)
}
