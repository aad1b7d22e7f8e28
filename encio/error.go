package encio

import (
	"errors"
	"runtime"
)

// Error handling in oc is designed to provide an easy way to distinguish io errors from encoding and decoding errors,
// and to reuse a small set of common error kinds for as many errors as possible, with extra information wrapped as applicable.
// Panics are only used when there is a clear misuse of the library; programmer error.
// To this end, all error cases are grouped into two error wrappers; IOError and Error, the idea being that
// IOError errors indicate a bad io.Reader/io.Writer, and the caller should stop using it, and
// Error errors indicate the value or the data could not be encoded or decoded.
//
// Kinds are checked with errors.Is
//
//	if errors.Is(err, encio.ErrDecoding) {
//		// discard the partially decoded value
//	}
//
// Every error is fatal to the call that returned it; there is no partial decode.
var (
	// ErrEncoding is returned when a value cannot be converted to its byte representation,
	// i.e. an unsupported declared width, or a value that doesn't fit in it.
	ErrEncoding = errors.New("encoding error")

	// ErrDecoding is returned when bytes cannot be turned back into a value;
	// a short read, unresolvable map element types or failed instance construction.
	ErrDecoding = errors.New("decoding error")

	// ErrUnsupported is returned when a codec path is invoked in a mode it does not support.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrMalformed is returned when the read data is impossible to decode.
	// It is always returned alongside ErrDecoding.
	ErrMalformed = errors.New("malformed")

	// ErrBadType is returned when a type, where possible to detect, is wrong, unresolvable or inappropriate.
	ErrBadType = errors.New("bad type")

	// ErrNilPointer is returned if a pointer that should not be nil is nil.
	ErrNilPointer = errors.New("nil pointer")
)

// NewIOError returns an IOError wrapping err with the given message.
// err is typically the error returned from the io.Reader/io.Writer, or another error describing why the reader isn't operating correctly.
// message has extra information about the error; if empty, it is filled with the calling function's name.
func NewIOError(err error, message string) error {
	if err == nil {
		return NewError(errors.New("unknown error"), "trying to create new IOError", "encio.NewIOError")
	}
	if message == "" {
		message = "in " + GetCaller(1)
	}

	return IOError{
		Err:     err,
		Message: message,
	}
}

// IOError is returned when io errors occour.
type IOError struct {
	Err     error
	Message string
}

// Error implements error
func (e IOError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap implements errors's Unwrap()
func (e IOError) Unwrap() error {
	return e.Err
}

// NewError returns an Error wrapping err with message and caller.
// If caller is empty, it is automatically filled with the calling function's name.
func NewError(err error, message string, caller string) error {
	if caller == "" {
		caller = GetCaller(1)
	}

	return &Error{
		Err:     err,
		Message: message,
		Caller:  caller,
	}
}

// Errorf returns an Error of kind err caused by cause.
func Errorf(err, cause error, message string) error {
	return &Error{
		Err:     err,
		Cause:   cause,
		Message: message,
		Caller:  GetCaller(1),
	}
}

// Error is returned when a value cannot be encoded or decoded.
// Err is the kind, one of the Err* variables, and Cause is an optional underlying error.
type Error struct {
	Err     error
	Cause   error
	Message string
	Caller  string
}

// Error implements error
func (e *Error) Error() (str string) {
	if e.Caller != "" {
		str = e.Caller + ": "
	}

	str += e.Err.Error()

	if e.Cause != nil {
		str += ": " + e.Cause.Error()
	}

	if e.Message != "" {
		str += " (" + e.Message + ")"
	}

	return str
}

// Unwrap implements errors's Unwrap()
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// GetCaller returns the name of the calling function, skipping skip functions.
// i.e. 0 writes the calling function, 1 the function calling that etc...
func GetCaller(skip int) string {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(2+skip, pcs)
	if n != 1 {
		return "Unknown Function"
	}

	frames := runtime.CallersFrames(pcs)
	frame, _ := frames.Next()
	return frame.Function
}
