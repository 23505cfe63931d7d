// Package script accumulates host-application statements as text.
package script

import (
	"fmt"
	"strings"
)

// Buffer is an append-only sequence of script lines
type Buffer struct {
	sb    strings.Builder
	lines int
}

// NewBuffer returns an empty buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// AddLine appends s followed by a newline. s may itself contain newlines.
func (b *Buffer) AddLine(s string) *Buffer {
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
	b.lines += strings.Count(s, "\n") + 1
	return b
}

// A appends a formatted line
func (b *Buffer) A(format string, args ...any) *Buffer {
	if len(args) == 0 {
		return b.AddLine(format)
	}
	return b.AddLine(fmt.Sprintf(format, args...))
}

// Raw appends text verbatim. A trailing newline is added if missing.
func (b *Buffer) Raw(text string) *Buffer {
	if text == "" {
		return b
	}
	return b.AddLine(strings.TrimSuffix(text, "\n"))
}

// String returns the accumulated script
func (b *Buffer) String() string {
	return b.sb.String()
}

// Len returns the number of lines written
func (b *Buffer) Len() int {
	return b.lines
}

// Copy returns an independent buffer with the same content
func (b *Buffer) Copy() *Buffer {
	c := &Buffer{lines: b.lines}
	c.sb.WriteString(b.sb.String())
	return c
}
