package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration, binning, and parameterization",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := setup()
		if err != nil {
			return err
		}
		// Computing the transforms exercises parameterization lookup,
		// channel validation, and curve parsing end to end.
		set, err := st.ComputeTransforms()
		if err != nil {
			return err
		}
		fmt.Printf("ok: %d groups, %d transforms over binning %v\n",
			len(st.Groups()), len(set.Transforms), st.InputBinning().Names())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
