package session

import "sort"

// Identity names a disguise or a yard cat ("Orange"). The empty identity means
// "no disguise".
type Identity string

// fedEntry records when an identity was fed and for how long it stays fed.
type fedEntry struct {
	fedAt        float64
	expiresAfter float64
}

// Registry is the set of identities the caretaker remembers feeding.
// An identity is fed iff it has an entry and now < fedAt + expiresAfter.
// Expired entries are ignored on read and removed by Sweep.
// Every change to the fed set publishes a state-changed notice on the bus.
type Registry struct {
	clock       *Clock
	hungryAgain float64
	entries     map[Identity]fedEntry
	bus         *Bus
}

// NewRegistry creates an empty registry. hungryAgain is how long, in seconds,
// an identity stays fed after MarkFed.
func NewRegistry(clock *Clock, hungryAgain float64) *Registry {
	return &Registry{
		clock:       clock,
		hungryAgain: hungryAgain,
		entries:     make(map[Identity]fedEntry),
	}
}

// HungryAgain returns the configured fed duration.
func (r *Registry) HungryAgain() float64 {
	return r.hungryAgain
}

// IsFed reports whether id is currently remembered as fed.
func (r *Registry) IsFed(id Identity) bool {
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	return r.clock.Now() < e.fedAt+e.expiresAfter
}

// Remaining returns how long id stays fed, if it is fed now.
func (r *Registry) Remaining(id Identity) (float64, bool) {
	if !r.IsFed(id) {
		return 0, false
	}
	e := r.entries[id]
	return e.fedAt + e.expiresAfter - r.clock.Now(), true
}

// MarkFed records id as fed now. The expiry is always the hungry-again duration.
// The second argument is the eating duration, which only drives the caretaker
// busy window. Calling it for an identity that is already fed refreshes the expiry.
func (r *Registry) MarkFed(id Identity, _ float64) {
	r.entries[id] = fedEntry{fedAt: r.clock.Now(), expiresAfter: r.hungryAgain}
	r.changed()
}

// MarkHungryAgain forgets id before its expiry. Returns true if it was fed.
func (r *Registry) MarkHungryAgain(id Identity) bool {
	fed := r.IsFed(id)
	delete(r.entries, id)
	if fed {
		r.changed()
	}
	return fed
}

// Sweep removes expired entries and returns their identities in sorted order.
func (r *Registry) Sweep() []Identity {
	var expired []Identity
	now := r.clock.Now()
	for id, e := range r.entries {
		if now >= e.fedAt+e.expiresAfter {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(r.entries, id)
	}
	if len(expired) > 0 {
		r.changed()
	}
	sortIdentities(expired)
	return expired
}

// FedAt returns when id was last fed, if it is currently fed.
func (r *Registry) FedAt(id Identity) (float64, bool) {
	if !r.IsFed(id) {
		return 0, false
	}
	return r.entries[id].fedAt, true
}

// Fed returns all currently fed identities in sorted order.
func (r *Registry) Fed() []Identity {
	var ids []Identity
	for id := range r.entries {
		if r.IsFed(id) {
			ids = append(ids, id)
		}
	}
	sortIdentities(ids)
	return ids
}

// Len returns the number of currently fed identities.
func (r *Registry) Len() int {
	n := 0
	for id := range r.entries {
		if r.IsFed(id) {
			n++
		}
	}
	return n
}

// Reset forgets every identity.
func (r *Registry) Reset() {
	clear(r.entries)
}

func (r *Registry) changed() {
	if r.bus != nil {
		r.bus.Publish(Notice{Kind: NoticeStateChanged})
	}
}

func sortIdentities(ids []Identity) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
