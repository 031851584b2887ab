package discomap

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSettings   = errors.New("discomap: invalid settings")
	ErrInvalidReference  = errors.New("discomap: invalid reference")
	ErrMalformedRecord   = errors.New("discomap: malformed record")
	ErrUnknownChromosome = errors.New("discomap: unknown chromosome")
)

// Diagnostic reports an input record that was skipped during normalization.
type Diagnostic struct {
	Index int   // position of the record in the input slice
	Err   error // wraps ErrMalformedRecord or ErrUnknownChromosome
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("record %d: %v", d.Index, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// MarshalText lets diagnostics travel inside a JSON view-model.
func (d Diagnostic) MarshalText() ([]byte, error) {
	return []byte(d.Error()), nil
}
