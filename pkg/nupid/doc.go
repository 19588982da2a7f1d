// Package nupid builds parameterized particle-identification transforms:
// per-bin linear weightings that split per-flavor event-rate histograms
// into track-like and cascade-like channels, driven by energy-dependent
// probability curves.
//
// Quick start:
//
//	p, err := nupid.New(nupid.Config{
//	    Particles:       "neutrinos",
//	    InputNames:      []string{"numu_cc"},
//	    TransformGroups: []string{"numu_cc"},
//	    InputBinning: []nupid.Axis{
//	        {Name: "reco_energy", Edges: []float64{1, 10, 100}, Scale: "log"},
//	    },
//	    Params: map[string]map[string]string{
//	        "numu_cc": {"trck": "0.9", "cscd": "0.1"},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	outputs, _ := p.Outputs(inputs)
//
// Output histograms carry a trailing classification axis of size two,
// ordered (cascade, track). Curve expressions use a small closed language
// of named forms — see the curve expression grammar in the README.
//
// A PID instance is not safe for concurrent use; the host pipeline is
// expected to serialize stage evaluation. Probability values outside
// [0, 1] are passed through unclipped, and a group's track and cascade
// curves need not sum to one.
package nupid
