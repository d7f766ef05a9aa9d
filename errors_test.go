package unienc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructorsCarryKind(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		kind ErrorKind
	}{
		{"initialization", ErrInitialization("missing %s", "binary"), InitializationError},
		{"configuration", ErrConfiguration("bad opts"), ConfigurationError},
		{"resource_allocation", ErrResourceAllocation("limit %d", 10), ResourceAllocationError},
		{"encoding", ErrEncoding("boom"), EncodingError},
		{"muxing", ErrMuxing("no metadata"), MuxingError},
		{"communication", ErrCommunication("pipe closed"), CommunicationError},
		{"timeout", ErrTimeout("deadline"), TimeoutError},
		{"invalid_input", ErrInvalidInput("null handle"), InvalidInput},
		{"platform", ErrPlatform("syscall failed"), PlatformError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Contains(t, tc.err.Error(), tc.kind.String())
		})
	}
}

func TestErrorErrorOmitsColonWhenMessageEmpty(t *testing.T) {
	e := &Error{Kind: Success}
	assert.Equal(t, "success", e.Error())
}

type fakeCategorized struct{ kind ErrorKind }

func (f fakeCategorized) Error() string       { return "fake" }
func (f fakeCategorized) Category() ErrorKind { return f.kind }

func TestCategorize(t *testing.T) {
	require.Nil(t, Categorize(nil))

	already := ErrEncoding("already categorized")
	require.Same(t, already, Categorize(already))

	cat := Categorize(fakeCategorized{kind: PlatformError})
	require.NotNil(t, cat)
	assert.Equal(t, PlatformError, cat.Kind)

	plain := Categorize(errors.New("plain"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrorGeneric, plain.Kind)
	assert.Equal(t, "plain", plain.Message)
}

func TestErrorKindStringUnknown(t *testing.T) {
	assert.Equal(t, "unknown", ErrorKind(999).String())
}
