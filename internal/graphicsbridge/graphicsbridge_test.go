package graphicsbridge

import (
	"testing"
	"time"

	"github.com/ebitengine/purego"
	"github.com/stretchr/testify/assert"

	"github.com/CyberAgentGameEntertainment/unienc/internal/runtime"
)

// fakeHostIssue stands in for a host's UniencIssueGraphicsEventCallback: it
// immediately invokes the trampoline it was handed, as if the render event
// fired synchronously. Real hosts call back later, from their own render
// thread; invoking inline here is enough to exercise the handle
// registration / lookup / unregister path Issue relies on.
func fakeHostIssue(eventFn, eventID, userData uintptr) {
	purego.SyscallN(eventFn, eventID, userData)
}

func TestIssueRunsClosureAndUnblocks(t *testing.T) {
	issueCB := purego.NewCallback(fakeHostIssue)

	rt := runtime.New()
	b := New(issueCB, rt)

	var ran bool
	err := b.Issue(func() { ran = true })

	assert.NoError(t, err)
	assert.True(t, ran)
}

func TestIssuePassesReservedEventID(t *testing.T) {
	var gotEventID int32 = -1
	capture := purego.NewCallback(func(eventFn, eventID, userData uintptr) {
		gotEventID = int32(eventID)
		purego.SyscallN(eventFn, eventID, userData)
	})

	rt := runtime.New()
	b := New(capture, rt)

	ran := make(chan struct{})
	err := b.Issue(func() { close(ran) })
	assert.NoError(t, err)
	assert.Equal(t, EventID, gotEventID)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("issued closure never ran")
	}
}

func TestIssueRunsSequentialClosuresIndependently(t *testing.T) {
	issueCB := purego.NewCallback(fakeHostIssue)

	rt := runtime.New()
	b := New(issueCB, rt)

	var first, second bool
	assert.NoError(t, b.Issue(func() { first = true }))
	assert.NoError(t, b.Issue(func() { second = true }))

	assert.True(t, first)
	assert.True(t, second)
}
