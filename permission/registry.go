package permission

import (
	"errors"
	"sync"
)

// Capability names a single permission granted to a role.
type Capability string

const (
	CapApprove        Capability = "yukyu.approve"
	CapCreateRequest  Capability = "yukyu.create"
	CapViewReports    Capability = "yukyu.reports"
	CapAdmin          Capability = "yukyu.admin"
	CapViewAllHistory Capability = "yukyu.history.all"
)

// Registry maps capability names to bit positions within a [Mask64].
type Registry struct {
	mu        sync.RWMutex
	nameToBit map[Capability]int
	bitToName map[int]Capability
	frozen    bool
}

// NewRegistry creates an empty capability [Registry].
func NewRegistry() *Registry {
	return &Registry{
		nameToBit: make(map[Capability]int),
		bitToName: make(map[int]Capability),
	}
}

// Register assigns the next available bit to the named capability.
// Returns the assigned bit index. Must be called before [Registry.Freeze].
func (r *Registry) Register(name Capability) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return -1, errors.New("registry frozen")
	}

	if name == "" {
		return -1, errors.New("capability name cannot be empty")
	}

	if _, exists := r.nameToBit[name]; exists {
		return -1, errors.New("capability already registered")
	}

	nextBit := len(r.nameToBit)
	if nextBit >= maskBits {
		return -1, errors.New("capability limit exceeded")
	}

	r.nameToBit[name] = nextBit
	r.bitToName[nextBit] = name

	return nextBit, nil
}

// Bit returns the bit index for the named capability, or false if not registered.
func (r *Registry) Bit(name Capability) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	return bit, ok
}

// Name returns the capability for the given bit index, or false if unassigned.
func (r *Registry) Name(bit int) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered capabilities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToBit)
}

// Names expands mask into capability names in bit order.
func (r *Registry) Names(mask Mask64) []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Capability, 0, len(r.bitToName))
	for bit := 0; bit < len(r.bitToName); bit++ {
		if mask.Has(bit) {
			out = append(out, r.bitToName[bit])
		}
	}
	return out
}
