// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package chainbdd

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
)

// Sentinel errors for the error kinds of the engine. Callers can test the
// kind of a failure with errors.Is against one of these values; seterror
// wraps them with call-site detail using fmt.Errorf's %w.
var (
	// ErrInvalidArgument covers negative capacities, out-of-range shift
	// amounts, bit indices beyond a bit-vector's width and non-bijective
	// variable orderings.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMismatchedSize is raised when a bit-vector operation mixes operands
	// of different widths.
	ErrMismatchedSize = errors.New("mismatched bit-vector size")
	// ErrWrongManager is raised when a Handle or variable from a different
	// Manager is passed to an operation.
	ErrWrongManager = errors.New("handle or variable belongs to a different manager")
	// ErrUnknownVariable is raised when an Assignment is queried for a
	// variable outside its decoded subset.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrTypeMismatch is raised when a variable map's image width does not
	// match its pre-image width.
	ErrTypeMismatch = errors.New("replace: image width does not match pre-image width")
	// ErrCapacityExhausted is raised when a node kind's representable rank
	// space is exhausted (at most 2^15-1 variables for CBDD, 2^21-1 for BDD).
	ErrCapacityExhausted = errors.New("variable rank space exhausted")
	// ErrInternalConsistency marks the manager as poisoned: a GC invariant
	// was violated and the manager can no longer be trusted.
	ErrInternalConsistency = errors.New("internal consistency failure")
)

// Error returns the error status of the manager. It returns an empty string
// if there is no pending error.
func (b *Manager) Error() string {
	if b.err == nil {
		return ""
	}
	return b.err.Error()
}

// Errored returns true if an operation previously left the manager in an
// error state.
func (b *Manager) Errored() bool {
	return b.err != nil
}

// seterror records a new error on the manager (chaining it after any error
// already pending) and returns the zero Handle, so that operations can
// write "return b.seterror(...)".
func (b *Manager) seterror(kind error, format string, a ...interface{}) Handle {
	msg := fmt.Sprintf(format, a...)
	wrapped := fmt.Errorf("%s: %w", msg, kind)
	if b.err != nil {
		b.err = fmt.Errorf("%s; %s", wrapped, b.err)
	} else {
		b.err = wrapped
	}
	if _DEBUG {
		log.Println(b.err)
	}
	return Handle{}
}

// poison records an internal-consistency failure, which aborts the current
// operation and leaves the manager permanently unusable. It is the one
// error class that reflects a bug in the engine rather than caller misuse,
// so it carries a stack trace.
func (b *Manager) poison(format string, a ...interface{}) Handle {
	b.err = errors.Wrapf(ErrInternalConsistency, format, a...)
	b.poisoned = true
	if _DEBUG {
		log.Println(b.err)
	}
	return Handle{}
}
