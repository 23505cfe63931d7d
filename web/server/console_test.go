package server

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan ConsoleMessage) ConsoleMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
	}
	return ConsoleMessage{}
}

func TestConsoleWriter_Lines(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	cw := NewConsoleWriter("test-render-123", messageChan)

	_, err := fmt.Fprint(cw, "Fra:1 Mem:12.00M\nSaved: ")
	require.NoError(t, err)

	msg := receive(t, messageChan)
	assert.Equal(t, "Fra:1 Mem:12.00M", msg.Message)
	assert.Equal(t, "info", msg.Level)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
	assert.Empty(t, messageChan, "partial line should be held")

	_, err = fmt.Fprint(cw, "'out.png'\r\n")
	require.NoError(t, err)
	assert.Equal(t, "Saved: 'out.png'", receive(t, messageChan).Message)
}

func TestConsoleWriter_Flush(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	cw := NewConsoleWriter("test-render-flush", messageChan)

	_, err := cw.Write([]byte("no newline"))
	require.NoError(t, err)
	cw.Flush()
	assert.Equal(t, "no newline", receive(t, messageChan).Message)

	cw.Flush()
	assert.Empty(t, messageChan)
}

func TestConsoleWriter_Levels(t *testing.T) {
	testCases := []struct {
		line  string
		level string
	}{
		{line: "Error: Python: Traceback (most recent call last):", level: "error"},
		{line: "  Traceback (most recent call last):", level: "error"},
		{line: "Warning: 1 x Draw window and swap", level: "warning"},
		{line: "Blender quit", level: "info"},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			messageChan := make(chan ConsoleMessage, 1)
			cw := NewConsoleWriter("test-render-levels", messageChan)
			_, err := cw.Write([]byte(tc.line + "\n"))
			require.NoError(t, err)
			assert.Equal(t, tc.level, receive(t, messageChan).Level)
		})
	}
}

func TestConsoleWriter_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	cw := NewConsoleWriter("test-render-789", messageChan)

	// Writes must not block once the channel is full
	_, err := cw.Write([]byte("Message 1\nMessage 2\nMessage 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "Message 1", receive(t, messageChan).Message)
	assert.Empty(t, messageChan)
}

func TestConsoleWriter_NilChannel(t *testing.T) {
	cw := NewConsoleWriter("test-render-nil", nil)
	assert.NotPanics(t, func() {
		_, _ = cw.Write([]byte("Test message with nil channel\n"))
		cw.Flush()
	})
}
