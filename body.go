package servicefn

import (
	"bytes"
	"io"
)

// Full is a Body backed by a complete, in-memory payload. Closing a Full
// is a no-op so it may be read by several consumers via Bytes.
type Full struct {
	b []byte
	r *bytes.Reader
}

// NewFull wraps the given bytes. The slice is not copied.
func NewFull(b []byte) *Full {
	return &Full{b: b, r: bytes.NewReader(b)}
}

// NewFullString wraps the given string.
func NewFullString(s string) *Full {
	return NewFull([]byte(s))
}

// Empty returns a zero length body.
func Empty() *Full {
	return NewFull(nil)
}

// Read reads from the payload. A zero Full reads as empty.
func (f *Full) Read(p []byte) (int, error) {
	if f.r == nil {
		return 0, io.EOF
	}
	return f.r.Read(p)
}

// Close does nothing.
func (f *Full) Close() error {
	return nil
}

// Bytes returns the entire payload regardless of how much has been read.
func (f *Full) Bytes() []byte {
	return f.b
}

// Len is the total payload size.
func (f *Full) Len() int {
	return len(f.b)
}

// readBody drains and closes b. A nil Body reads as empty.
func readBody(b Body) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	defer b.Close()
	if f, ok := b.(*Full); ok {
		return f.Bytes(), nil
	}
	return io.ReadAll(b)
}
