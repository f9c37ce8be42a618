package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	want := Event{Path: "a.go", Block: 0, Line: 3, Status: EventWorking}
	pr.Emit(want)

	select {
	case got := <-pr.Subscribe():
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}

func TestProgressReporter_EmitWhenFull_DoesNotBlock(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			pr.Emit(Event{Path: "a.go", Status: EventWorking})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked when the channel was full")
	}
}

func TestProgressReporter_Close(t *testing.T) {
	pr := NewProgressReporter()
	ch := pr.Subscribe()
	pr.Close()

	_, ok := <-ch
	require.False(t, ok)
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		status EventStatus
		msg    string
		want   string
	}{
		{EventPending, "", "  ○ a.go block 2 (line 10) (pending)"},
		{EventWorking, "", "  ● a.go block 2 (line 10)..."},
		{EventResolved, "", "  ✓ a.go block 2 (line 10) resolved"},
		{EventUnresolved, "declined", "  ✗ a.go block 2 (line 10) unresolved: declined"},
		{EventStatus("bogus"), "", "  ? a.go block 2 (line 10) (unknown status)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := FormatEvent(Event{Path: "a.go", Block: 1, Line: 10, Status: tt.status, Message: tt.msg})
			assert.Equal(t, tt.want, got)
		})
	}
}
