package program

import "fmt"

// #region parse-error
// ParseError reports a malformed operation token.
type ParseError struct {
	Token  string
	Index  int // position in the program, -1 when parsed on its own
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse operation %q", e.Token)
	if e.Index >= 0 {
		msg = fmt.Sprintf("parse operation %d %q", e.Index, e.Token)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
// #endregion parse-error

// #region precondition-error
// PreconditionError reports an operation that cannot apply to a lineup of
// the given size: an exchange position past the end, or a partner symbol
// outside the alphabet.
type PreconditionError struct {
	Op     Operation
	Size   int
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("operation %s on %d symbols: %s", e.Op, e.Size, e.Reason)
}
// #endregion precondition-error
