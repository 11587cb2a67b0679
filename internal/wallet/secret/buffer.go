// Package secret holds sensitive byte buffers that are zeroed on disposal.
package secret

import "sync"

// Buffer owns a sensitive byte slice. The zero value is an empty, wiped buffer.
// Callers must Wipe it once the material is no longer needed; nothing does so
// automatically.
type Buffer struct {
	mu    sync.RWMutex
	b     []byte
	wiped bool
}

// New takes ownership of b. The caller must not retain or modify b afterwards.
func New(b []byte) *Buffer {
	return &Buffer{b: b}
}

// Copy creates a buffer holding a private copy of b
func Copy(b []byte) *Buffer {
	c := make([]byte, len(b))
	copy(c, b)
	return New(c)
}

// Bytes returns a copy of the secret, or nil once wiped
func (s *Buffer) Bytes() []byte {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.wiped || s.b == nil {
		return nil
	}
	c := make([]byte, len(s.b))
	copy(c, s.b)
	return c
}

// Use calls fn with the backing slice without copying. fn must not retain it.
// Returns false if the buffer has been wiped.
func (s *Buffer) Use(fn func(b []byte)) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.wiped || s.b == nil {
		return false
	}
	fn(s.b)
	return true
}

// Len returns the secret length, 0 once wiped
func (s *Buffer) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.wiped {
		return 0
	}
	return len(s.b)
}

// Wiped reports whether Wipe has been called
func (s *Buffer) Wiped() bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wiped
}

// Wipe overwrites the secret with zeroes and releases it. Safe to call repeatedly.
func (s *Buffer) Wipe() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	Zero(s.b)
	s.b = nil
	s.wiped = true
}

// Zero overwrites b with zeroes
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
