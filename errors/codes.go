package errors

// ErrorCode is the stable machine-readable code carried by every AppError.
// The boundary layer branches on the code; humans read the message.
type ErrorCode int

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_VALIDATION
	ErrorCode_NOT_FOUND
	ErrorCode_PERMISSION_DENIED
	ErrorCode_ALREADY_EXISTS
	ErrorCode_NETWORK
	ErrorCode_TIMEOUT
	ErrorCode_RESOURCE_EXHAUSTED
	ErrorCode_PARTIAL_FAILURE
)

var codeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:            "UNKNOWN",
	ErrorCode_VALIDATION:         "VALIDATION",
	ErrorCode_NOT_FOUND:          "NOT_FOUND",
	ErrorCode_PERMISSION_DENIED:  "PERMISSION_DENIED",
	ErrorCode_ALREADY_EXISTS:     "ALREADY_EXISTS",
	ErrorCode_NETWORK:            "NETWORK",
	ErrorCode_TIMEOUT:            "TIMEOUT",
	ErrorCode_RESOURCE_EXHAUSTED: "RESOURCE_EXHAUSTED",
	ErrorCode_PARTIAL_FAILURE:    "PARTIAL_FAILURE",
}

// String returns the canonical name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Retryable reports whether an operation failing with this code may be
// retried. UNKNOWN is treated as retryable until proven otherwise;
// PARTIAL_FAILURE is reported, never retried as a whole.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrorCode_NETWORK, ErrorCode_TIMEOUT, ErrorCode_RESOURCE_EXHAUSTED, ErrorCode_UNKNOWN:
		return true
	}
	return false
}
