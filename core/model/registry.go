package model

import "fmt"

// Registry is an immutable, validated set of activities. Input order is
// preserved and used as the tie breaker everywhere a deterministic order is
// required. A Registry is safe for concurrent reads.
type Registry struct {
	activities []Activity
	index      map[string]int
}

// NewRegistry validates every activity and rejects duplicate identifiers.
// The activities are deep-copied so later changes by the caller do not leak
// into the registry.
func NewRegistry(activities []Activity) (*Registry, error) {
	r := &Registry{
		activities: make([]Activity, 0, len(activities)),
		index:      make(map[string]int, len(activities)),
	}
	for _, a := range activities {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, ok := r.index[a.ID]; ok {
			return nil, &DuplicateActivityError{ID: a.ID}
		}
		r.index[a.ID] = len(r.activities)
		r.activities = append(r.activities, a.Clone())
	}
	return r, nil
}

// Len returns the number of activities.
func (r *Registry) Len() int { return len(r.activities) }

// At returns a copy of the activity at position i in input order.
func (r *Registry) At(i int) Activity { return r.activities[i].Clone() }

// Index returns the input position of id.
func (r *Registry) Index(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// Get returns a copy of the activity with the given identifier.
func (r *Registry) Get(id string) (Activity, bool) {
	i, ok := r.index[id]
	if !ok {
		return Activity{}, false
	}
	return r.activities[i].Clone(), true
}

// Lookup is like Get but returns an error wrapping ErrNotFound.
func (r *Registry) Lookup(id string) (Activity, error) {
	a, ok := r.Get(id)
	if !ok {
		return Activity{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return a, nil
}

// Activities returns copies of all activities in input order.
func (r *Registry) Activities() []Activity {
	out := make([]Activity, len(r.activities))
	for i, a := range r.activities {
		out[i] = a.Clone()
	}
	return out
}

// ID returns the identifier of the activity at position i.
func (r *Registry) ID(i int) string { return r.activities[i].ID }

// Duration returns the duration of the activity at position i.
func (r *Registry) Duration(i int) int { return r.activities[i].Duration }
