package server

import (
	"bytes"
	"strings"
	"sync"
	"time"
)

// ConsoleMessage is one line of host output
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// ConsoleWriter splits host output into lines and forwards each one to a
// console channel. It is safe for concurrent use.
type ConsoleWriter struct {
	renderID    string
	consoleChan chan<- ConsoleMessage

	mu      sync.Mutex
	pending []byte
}

// NewConsoleWriter creates a console writer for a specific render
func NewConsoleWriter(renderID string, consoleChan chan<- ConsoleMessage) *ConsoleWriter {
	return &ConsoleWriter{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Write implements io.Writer. A trailing partial line is held until the
// next newline or Flush.
func (cw *ConsoleWriter) Write(p []byte) (int, error) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.pending = append(cw.pending, p...)
	for {
		i := bytes.IndexByte(cw.pending, '\n')
		if i < 0 {
			break
		}
		cw.send(string(cw.pending[:i]))
		cw.pending = cw.pending[i+1:]
	}
	return len(p), nil
}

// Flush sends any held partial line
func (cw *ConsoleWriter) Flush() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if len(cw.pending) > 0 {
		cw.send(string(cw.pending))
		cw.pending = nil
	}
}

func (cw *ConsoleWriter) send(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" || cw.consoleChan == nil {
		return
	}
	select {
	case cw.consoleChan <- ConsoleMessage{
		Message:   line,
		Timestamp: time.Now(),
		Level:     lineLevel(line),
	}:
	default:
		// Channel full, skip (don't block the host)
	}
}

func lineLevel(line string) string {
	switch {
	case strings.HasPrefix(line, "Error"), strings.Contains(line, "Traceback"):
		return "error"
	case strings.HasPrefix(line, "Warning"):
		return "warning"
	}
	return "info"
}
