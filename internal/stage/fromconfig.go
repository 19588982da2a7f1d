package stage

import (
	"log/slog"

	"github.com/qft-labs/nupid/internal/config"
	"github.com/qft-labs/nupid/internal/flavor"
	"github.com/qft-labs/nupid/internal/param"
)

// FromConfig builds a stage from a loaded configuration. A nil reader reads
// parameterization files from the local filesystem. When the configuration
// declares no output binning the input binning is requested unchanged, so
// the stage appends the synthetic classification axis to it.
func FromConfig(cfg config.Config, reader param.Reader, logger *slog.Logger) (*Stage, error) {
	inputBinning, err := cfg.InputBinning()
	if err != nil {
		return nil, err
	}
	outputBinning := inputBinning
	if len(cfg.Binning.Output) > 0 {
		outputBinning, err = cfg.OutputBinning()
		if err != nil {
			return nil, err
		}
	}

	inputs := flavor.Flavors(cfg.InputNames)
	groups, err := flavor.ParseGroups(cfg.TransformGroups, inputs)
	if err != nil {
		return nil, err
	}

	return New(Params{
		Particles:     cfg.Particles,
		InputNames:    inputs,
		Groups:        groups,
		InputBinning:  inputBinning,
		OutputBinning: outputBinning,
		Source:        cfg.Source(),
		Reader:        reader,
		Logger:        logger,
	})
}
