package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

var transformsCmd = &cobra.Command{
	Use:   "transforms",
	Short: "Print the assembled transform set",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := setup()
		if err != nil {
			return err
		}
		set, err := st.ComputeTransforms()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INPUT\tOUTPUT\tBINS\tMIN WEIGHT\tMAX WEIGHT")
		for _, t := range set.Transforms {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.4g\t%.4g\n",
				t.Input, t.Output, len(t.Weights),
				floats.Min(t.Weights), floats.Max(t.Weights))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(transformsCmd)
}
