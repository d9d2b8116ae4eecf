package core

import (
	"image"
	"time"
)

// DefaultEmoteTTL is how long an emote stays on screen.
const DefaultEmoteTTL = 10 * time.Second

// ActiveEmote is an emote eligible for placement until it expires.
type ActiveEmote struct {
	ID        uint64
	Pattern   string
	CreatedAt time.Time
	Image     image.Image
}

// Age returns how long the emote has been active at now.
func (e ActiveEmote) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Registry is the working set of active emotes. It is not safe for
// concurrent use; the engine loop is its only owner.
type Registry struct {
	ttl    time.Duration
	nextID uint64
	emotes []ActiveEmote
}

// NewRegistry constructs a Registry. A non-positive ttl uses DefaultEmoteTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultEmoteTTL
	}
	return &Registry{ttl: ttl}
}

// TTL returns the expiry age.
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Insert adds an emote stamped with now.
func (r *Registry) Insert(pattern string, img image.Image, now time.Time) ActiveEmote {
	r.nextID++
	emote := ActiveEmote{
		ID:        r.nextID,
		Pattern:   pattern,
		CreatedAt: now,
		Image:     img,
	}
	r.emotes = append(r.emotes, emote)
	return emote
}

// Expire removes every emote whose age is at least the TTL and returns how
// many were removed.
func (r *Registry) Expire(now time.Time) int {
	kept := r.emotes[:0]
	for _, emote := range r.emotes {
		if emote.Age(now) < r.ttl {
			kept = append(kept, emote)
		}
	}
	removed := len(r.emotes) - len(kept)
	for i := len(kept); i < len(r.emotes); i++ {
		r.emotes[i] = ActiveEmote{}
	}
	r.emotes = kept
	return removed
}

// Snapshot returns a copy of the active emotes in insertion order.
func (r *Registry) Snapshot() []ActiveEmote {
	out := make([]ActiveEmote, len(r.emotes))
	copy(out, r.emotes)
	return out
}

// Len returns the number of active emotes.
func (r *Registry) Len() int {
	return len(r.emotes)
}

// Clear drops every active emote.
func (r *Registry) Clear() {
	r.emotes = nil
}
