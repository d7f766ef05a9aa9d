// Package unienc implements the platform-neutral core of a real-time
// audio/video encoding and muxing pipeline: a single Encoder/Muxer contract
// that every platform backend satisfies, plus the shared buffer pool,
// runtime, and error taxonomy the C ABI layer in capi/ exposes to a host.
package unienc

import "fmt"

// ErrorKind is the machine-actionable classification carried across the C
// ABI alongside a human-readable message. Discriminants match the ABI's
// UniencErrorKind exactly; do not reorder.
type ErrorKind int32

const (
	Success ErrorKind = iota
	ErrorGeneric
	InitializationError
	ConfigurationError
	ResourceAllocationError
	EncodingError
	MuxingError
	CommunicationError
	TimeoutError
	InvalidInput
	PlatformError
)

func (k ErrorKind) String() string {
	switch k {
	case Success:
		return "success"
	case ErrorGeneric:
		return "error"
	case InitializationError:
		return "initialization_error"
	case ConfigurationError:
		return "configuration_error"
	case ResourceAllocationError:
		return "resource_allocation_error"
	case EncodingError:
		return "encoding_error"
	case MuxingError:
		return "muxing_error"
	case CommunicationError:
		return "communication_error"
	case TimeoutError:
		return "timeout_error"
	case InvalidInput:
		return "invalid_input"
	case PlatformError:
		return "platform_error"
	default:
		return "unknown"
	}
}

// Error is the error type every public operation in this module returns.
// It always carries a Kind; Message may be empty for kinds that are
// self-explanatory.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// CategorizedError is implemented by backend-internal error enums so that
// they can be mapped to the ABI taxonomy in one place (see capi's error
// conversion helper) instead of each call site constructing an *Error by
// hand.
type CategorizedError interface {
	error
	Category() ErrorKind
}

func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrInitialization reports a failure to initialize a backend (missing
// binary, failed codec session creation, unsupported platform).
func ErrInitialization(format string, args ...any) *Error {
	return newErr(InitializationError, format, args...)
}

// ErrConfiguration reports invalid or unsupported encoder/muxer options.
func ErrConfiguration(format string, args ...any) *Error {
	return newErr(ConfigurationError, format, args...)
}

// ErrResourceAllocation reports exhaustion of a bounded resource: the shared
// buffer pool's byte limit, or a handle whose inner value has already been
// taken by a concurrent finish()/free.
func ErrResourceAllocation(format string, args ...any) *Error {
	return newErr(ResourceAllocationError, format, args...)
}

// ErrEncoding reports a failure inside the encode path proper.
func ErrEncoding(format string, args ...any) *Error {
	return newErr(EncodingError, format, args...)
}

// ErrMuxing reports a muxer contract violation (sample before metadata,
// metadata installed twice, container finalize failure).
func ErrMuxing(format string, args ...any) *Error {
	return newErr(MuxingError, format, args...)
}

// ErrCommunication reports a failure talking to a subprocess or external
// service the backend depends on.
func ErrCommunication(format string, args ...any) *Error {
	return newErr(CommunicationError, format, args...)
}

// ErrTimeout reports a bounded wait that elapsed.
func ErrTimeout(format string, args ...any) *Error {
	return newErr(TimeoutError, format, args...)
}

// ErrInvalidInput reports a caller-supplied argument this module rejects
// (unsupported frame variant for a backend, null handle, oversized buffer).
func ErrInvalidInput(format string, args ...any) *Error {
	return newErr(InvalidInput, format, args...)
}

// ErrPlatform reports an OS/platform-level failure (syscall, subprocess
// exit status, JNI/COM failure).
func ErrPlatform(format string, args ...any) *Error {
	return newErr(PlatformError, format, args...)
}

// Categorize converts any error into an ABI-ready *Error: CategorizedError
// implementations keep their category, plain errors become ErrorGeneric.
func Categorize(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	if ce, ok := err.(CategorizedError); ok {
		return &Error{Kind: ce.Category(), Message: ce.Error()}
	}
	return &Error{Kind: ErrorGeneric, Message: err.Error()}
}
