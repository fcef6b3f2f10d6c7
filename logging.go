package reactor

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger narrows logiface.Logger[*stumpy.Event] to the one type every
// component in this package depends on. A Loop that is not given one via
// WithLogger falls back to a logger configured with WithStumpy, writing to
// os.Stderr.
type Logger = *logiface.Logger[*stumpy.Event]

// defaultLogger builds the package's fallback logger: stumpy's zero-alloc
// JSON writer at Info level.
func defaultLogger() Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(),
		stumpy.L.WithLevel(logiface.LevelInformational),
	)
}
