// Package testutil holds helpers shared by tests.
package testutil

import (
	"bytes"
	"strings"
	"sync"
)

// ThreadSafeBuffer collects output written from script goroutines, watchers and
// log handlers while a test reads it.
type ThreadSafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *ThreadSafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *ThreadSafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Lines returns the complete lines written so far, without line breaks.
// A trailing partial line is left out.
func (b *ThreadSafeBuffer) Lines() []string {
	text := b.String()
	end := strings.LastIndexByte(text, '\n')
	if end < 0 {
		return nil
	}
	return strings.Split(text[:end], "\n")
}

func (b *ThreadSafeBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
