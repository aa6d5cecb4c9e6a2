package decision

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Each typed error below unwraps to one of them.
var (
	ErrUnimplemented = errors.New("decision: operation not implemented")
	ErrExhausted     = errors.New("decision: script exhausted")
	ErrNoCandidates  = errors.New("decision: invalid candidate set")
	ErrMismatch      = errors.New("decision: scripted answer not offered")
)

// UnimplementedError is returned by the fail-fast provider for any operation
// that was not overridden or scripted.
type UnimplementedError struct {
	Op Op
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("decision: %s is not implemented", e.Op)
}

func (e *UnimplementedError) Unwrap() error { return ErrUnimplemented }

// ExhaustedError is returned when a scripted operation has no answers left.
type ExhaustedError struct {
	Op        Op
	Consumed  int
	Remaining int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("decision: script for %s exhausted after %d answers (remaining=%d)", e.Op, e.Consumed, e.Remaining)
}

func (e *ExhaustedError) Unwrap() error { return ErrExhausted }

// CandidateError reports a caller contract violation: an empty pool or
// inverted numeric bounds.
type CandidateError struct {
	Op     Op
	Reason string
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("decision: %s: %s", e.Op, e.Reason)
}

func (e *CandidateError) Unwrap() error { return ErrNoCandidates }

// MismatchError is returned when a scripted answer is not among the
// candidates the rules engine offered, which means the run diverged from
// the script.
type MismatchError struct {
	Op      Op
	Want    string
	Offered []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("decision: %s: scripted answer %q not in [%s]", e.Op, e.Want, strings.Join(e.Offered, ", "))
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// OpOf extracts the operation name carried by any decision error in err's chain.
func OpOf(err error) (Op, bool) {
	var (
		unimpl    *UnimplementedError
		exhausted *ExhaustedError
		cand      *CandidateError
		mismatch  *MismatchError
	)
	switch {
	case errors.As(err, &unimpl):
		return unimpl.Op, true
	case errors.As(err, &exhausted):
		return exhausted.Op, true
	case errors.As(err, &cand):
		return cand.Op, true
	case errors.As(err, &mismatch):
		return mismatch.Op, true
	}
	return "", false
}

func emptyPool(op Op) error {
	return &CandidateError{Op: op, Reason: "empty candidate set"}
}

func invertedBounds(lo, hi int) error {
	return &CandidateError{Op: OpNumber, Reason: fmt.Sprintf("inverted bounds [%d, %d]", lo, hi)}
}
