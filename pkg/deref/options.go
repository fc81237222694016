package deref

import (
	"io"

	"github.com/charmbracelet/log"
)

// Options configures one dereferencing run. The zero value is the default
// configuration.
type Options struct {
	// MergeAdditionalProperties merges the siblings of a $ref node onto the
	// referenced value instead of rejecting them. Default: false.
	MergeAdditionalProperties bool

	// RemoveIDs drops the top-level $id of every inlined value. Default: false.
	RemoveIDs bool

	// Logger receives debug events. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
