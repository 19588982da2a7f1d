package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"github.com/qft-labs/nupid/internal/binning"
	"github.com/qft-labs/nupid/internal/curve"
	"github.com/qft-labs/nupid/internal/param"
	"github.com/qft-labs/nupid/internal/transform"
)

var plotDir string

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render per-group PID probability curves as histograms",
	Long: `plot evaluates each group's track and cascade curves at the energy bin
centers and writes one PNG per group, with the per-bin probabilities drawn
as step histograms over the energy binning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := setup()
		if err != nil {
			return err
		}
		entries, err := param.NewLoader(nil).Load(cfg.Source())
		if err != nil {
			return err
		}
		eAxis, ok := st.InputBinning().Axis(binning.AxisEnergy)
		if !ok {
			return fmt.Errorf("input binning has no %q axis", binning.AxisEnergy)
		}
		centers := eAxis.WeightedCenters()

		if err := os.MkdirAll(plotDir, 0o755); err != nil {
			return err
		}

		for _, g := range st.Groups() {
			entry, err := param.Find(entries, g.Key)
			if err != nil {
				return err
			}

			p := hplot.New()
			p.Title.Text = fmt.Sprintf("PID probabilities, %s", g.Key)
			p.X.Label.Text = "reconstructed energy"
			p.Y.Label.Text = "probability"

			for _, channel := range transform.Channels {
				c, err := curve.Parse(entry[channel])
				if err != nil {
					return err
				}
				h := hbook.NewH1DFromEdges(eAxis.Edges)
				for _, e := range centers {
					h.Fill(e, c.Eval(e))
				}
				hh := hplot.NewH1D(h)
				p.Add(hh)
				p.Legend.Add(channel, hh)
			}

			name := strings.ReplaceAll(g.Key.String(), "+", "_") + ".png"
			if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, filepath.Join(plotDir, name)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	plotCmd.Flags().StringVarP(&plotDir, "output", "o", "plots", "output directory for PNG files")
	rootCmd.AddCommand(plotCmd)
}
