package nupid

import "log/slog"

type options struct {
	readFile func(path string) ([]byte, error)
	logger   *slog.Logger
}

// Option configures a PID instance.
type Option func(*options)

// WithResourceReader substitutes the function used to resolve external
// parameterization files, e.g. a framework resource locator. The default
// reads from the local filesystem.
func WithResourceReader(fn func(path string) ([]byte, error)) Option {
	return func(o *options) {
		o.readFile = fn
	}
}

// WithLogger sets the logger used for stage debug output.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
