package errcode

// Code is a stable error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK          Code = "ok"
	Unsupported Code = "unsupported"

	InvalidIdentifier  Code = "invalid_identifier"
	InvalidArgument    Code = "invalid_argument"
	PowerEnableFailed  Code = "power_enable_failed"
	PowerDisableFailed Code = "power_disable_failed"
	Timeout            Code = "timeout"

	Error Code = "error" // generic fallback
)

// Retryable reports whether a caller may reasonably try the operation again.
// Power transition failures can be transient; identifier errors never are.
func (c Code) Retryable() bool {
	switch c {
	case PowerEnableFailed, PowerDisableFailed, Timeout:
		return true
	}
	return false
}

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.Timeout) match a wrapped code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap builds an *E. A nil cause with an empty message still carries the code.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
