package permission

import (
	"errors"
	"sync"
)

// RoleManager holds the capability mask of every registered role.
//
// RoleManager instances are configured during initialization and then
// frozen; lookups are safe for concurrent use.
type RoleManager struct {
	registry *Registry

	mu     sync.RWMutex
	roles  map[Role]Mask64
	frozen bool
}

// NewRoleManager returns an empty RoleManager resolving capability names
// through registry.
func NewRoleManager(registry *Registry) *RoleManager {
	return &RoleManager{
		registry: registry,
		roles:    make(map[Role]Mask64),
	}
}

// RegisterRole stores the mask built from caps under role. Every capability
// must already be registered. A role with no capabilities is valid and
// still counts as known.
func (rm *RoleManager) RegisterRole(role Role, caps []Capability) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.frozen {
		return errors.New("role manager frozen")
	}

	if role == "" {
		return errors.New("role name empty")
	}

	if _, exists := rm.roles[role]; exists {
		return errors.New("role already registered")
	}

	var mask Mask64
	for _, c := range caps {
		bit, ok := rm.registry.Bit(c)
		if !ok {
			return errors.New("capability not registered: " + string(c))
		}
		mask.Set(bit)
	}

	rm.roles[role] = mask
	return nil
}

// Mask returns the capability mask for role. Unknown roles return a zero
// mask and false.
func (rm *RoleManager) Mask(role Role) (Mask64, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	mask, ok := rm.roles[role]
	return mask, ok
}

// Freeze prevents further role registrations.
func (rm *RoleManager) Freeze() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.frozen = true
}

// Count returns the number of registered roles.
func (rm *RoleManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.roles)
}
