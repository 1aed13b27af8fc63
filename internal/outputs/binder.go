// Package outputs late-binds references to the values a deployed unit
// produces. A downstream step can ask for "whatever unit S produced" before
// it is known whether S will be expanded again; every request for the same
// producer resolves to the identical handle.
package outputs

import "strings"

// Handle is the stable reference to one producing unit's runtime outputs.
// Consumers compare handles by pointer identity, so the binder must hand out
// the same *Handle for the same producer every time.
type Handle struct {
	// ProducerID is the unit whose outputs this handle refers to.
	ProducerID string
	// Token is the artifact name the execution layer uses to carry the
	// producer's outputs between steps.
	Token string
}

// Binder allocates one Handle per producing unit, lazily, and never forgets
// an entry. It is owned by a single planning session.
type Binder struct {
	handles map[string]*Handle
}

// NewBinder creates an empty binder.
func NewBinder() *Binder {
	return &Binder{handles: make(map[string]*Handle)}
}

// HandleFor returns the output handle for the given producing unit. The
// first call allocates it; every later call returns the identical pointer.
func (b *Binder) HandleFor(producerID string) *Handle {
	if h, ok := b.handles[producerID]; ok {
		return h
	}
	h := &Handle{
		ProducerID: producerID,
		Token:      sanitizeToken(producerID) + ".Outputs",
	}
	b.handles[producerID] = h
	return h
}

// Bound reports whether a handle was ever requested for the given producer.
func (b *Binder) Bound(producerID string) bool {
	_, ok := b.handles[producerID]
	return ok
}

// sanitizeToken maps a unit identity to an artifact-safe token. The token is
// keyed only by the unit's stable identity string, never by anything that
// changes between planning sessions.
func sanitizeToken(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
