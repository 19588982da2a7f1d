package curve

import (
	"fmt"
	"sort"

	"github.com/qft-labs/nupid/internal/core"
)

// Builder constructs a curve from parsed arguments.
type Builder func(args []Arg) (Curve, error)

var registry = map[string]Builder{}

// Register adds a curve builder under the given name. Later registrations
// replace earlier ones, so callers can override built-ins.
func Register(name string, b Builder) {
	registry[name] = b
}

// Get returns the builder for the given curve name.
func Get(name string) (Builder, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("curve: %w: unknown curve %q (known: %v)",
			core.ErrParamFormat, name, Names())
	}
	return b, nil
}

// Names returns the registered curve names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
