package mesh

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Generation errors. Callers must discard any partial output on error.
var (
	ErrInvalidParameter         = errors.New("invalid parameter")
	ErrDegenerateGeometry       = errors.New("degenerate geometry")
	ErrInconsistentCrossSection = errors.New("inconsistent cross-section")
)

// Validator collects parameter violations so one error reports all of them.
type Validator struct {
	errs error
}

// Check records a violation when ok is false.
func (v *Validator) Check(ok bool, format string, args ...any) {
	if !ok {
		v.errs = multierr.Append(v.errs, fmt.Errorf(format, args...))
	}
}

// Err returns nil when every check passed, otherwise an error wrapping
// ErrInvalidParameter that names the generator and lists the violations.
func (v *Validator) Err(name string) error {
	if v.errs == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, v.errs)
}

// Degenerate returns an error wrapping ErrDegenerateGeometry.
func Degenerate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDegenerateGeometry, fmt.Sprintf(format, args...))
}
