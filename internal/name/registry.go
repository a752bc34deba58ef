// Package name implements the interpreter's name registry: interning of
// identifier text into dense integer IDs, shared by the bind and execute
// phases.
package name

import "sync"

// ID is a dense integer identifying an interned identifier. IDs are
// assigned in registration order starting at 1; 0 is never a valid ID.
type ID int

// Info is the handle returned by Registry.Register. Equal text always
// yields an Info with an identical ID.
type Info struct {
	ID   ID
	Text string
}

// Registry interns identifier text into dense IDs. Registration is
// thread-safe; a Registry may be shared across a top-level script and any
// sub-scripts it spawns via sys.execute. Lookups via an already-obtained
// Info do not take the lock.
type Registry struct {
	mu     sync.Mutex
	byText map[string]*Info
	byID   []*Info // index 0 unused, IDs start at 1
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byText: make(map[string]*Info),
		byID:   make([]*Info, 1),
	}
}

// Register interns text, returning the existing Info if text was already
// registered or assigning it a fresh ID otherwise.
func (r *Registry) Register(text string) *Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.byText[text]; ok {
		return info
	}

	info := &Info{ID: ID(len(r.byID)), Text: text}
	r.byText[text] = info
	r.byID = append(r.byID, info)
	return info
}

// RegisterRange interns every element of texts, returning their Infos in
// the same order. Equivalent to calling Register in a loop; provided
// because the binder frequently interns whole parameter/member lists at
// once.
func (r *Registry) RegisterRange(texts []string) []*Info {
	out := make([]*Info, len(texts))
	for i, t := range texts {
		out[i] = r.Register(t)
	}
	return out
}

// Lookup returns the Info for text if it has already been registered.
func (r *Registry) Lookup(text string) (*Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.byText[text]
	return info, ok
}

// ByID returns the Info for a previously assigned ID, or nil if id was
// never assigned. It takes the registry lock, since a concurrent Register
// may grow (and so reallocate) the backing slice.
func (r *Registry) ByID(id ID) *Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(id) <= 0 || int(id) >= len(r.byID) {
		return nil
	}
	return r.byID[id]
}

// Len returns the number of distinct interned names.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID) - 1
}
