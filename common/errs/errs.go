package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound        = ErrorKind("Not Found")
	InvalidArgument = ErrorKind("Invalid Argument")
	Unsupported     = ErrorKind("Unsupported")
	InternalError   = ErrorKind("Internal Error")

	// Timeout is returned when a node request does not answer in time.
	Timeout = ErrorKind("Timeout")

	// Transient marks node or network failures that are retried with the same marker.
	Transient = ErrorKind("Transient")

	// ProtocolMismatch marks binary/JSON page disagreement or inconsistent ledger indexes.
	// It is fatal to the current pass.
	ProtocolMismatch = ErrorKind("Protocol Mismatch")

	// RetryExhausted is returned when the marker did not advance within the retry ceiling.
	RetryExhausted = ErrorKind("Retry Exhausted")

	// Busy is returned when a pass is requested while another one is in flight.
	Busy = ErrorKind("Busy")

	OverflowUint64  = ErrorKind("overflow uint64")
	OverflowUint128 = ErrorKind("overflow uint128")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
