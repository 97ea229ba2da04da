// Package shader provides the fragment shaders of the diorama: a plain
// lit shader and procedural, noise-driven surfaces for the scene bodies.
package shader

import (
	"sync"
	"time"
)

type fieldKey struct {
	kind      NoiseKind
	frequency float64
	salt      int64
}

// Context owns the noise fields used by the procedural shaders. Fields are
// created on first request and shared by every shader built from the same
// Context, so one Context should live for the whole session.
type Context struct {
	Seed        int64
	LockTimeout time.Duration

	mu     sync.Mutex
	fields map[fieldKey]*Field
}

// NewContext creates a shading context whose fields derive their seeds from seed.
func NewContext(seed int64) *Context {
	return &Context{
		Seed:        seed,
		LockTimeout: DefaultLockTimeout,
		fields:      make(map[fieldKey]*Field),
	}
}

// Field returns the field for kind and frequency, creating it on first use.
// salt separates fields that share kind and frequency but must not correlate.
func (c *Context) Field(kind NoiseKind, frequency float64, salt int64) *Field {
	key := fieldKey{kind, frequency, salt}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fields == nil {
		c.fields = make(map[fieldKey]*Field)
	}
	if f, ok := c.fields[key]; ok {
		return f
	}
	f := NewField(kind, frequency, c.Seed+salt, c.LockTimeout)
	c.fields[key] = f
	return f
}

// FieldCount returns the number of fields created so far.
func (c *Context) FieldCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.fields)
}

// Timeouts sums lock timeouts over every field.
func (c *Context) Timeouts() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, f := range c.fields {
		n += f.Timeouts()
	}
	return n
}
