package permission

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// Resolver answers capability and page-access questions for a role. All
// lookups are read-only after construction and fail closed: empty or
// unknown roles have no capabilities and unregistered paths are denied.
type Resolver struct {
	registry *Registry
	roles    *RoleManager

	exact map[string]PageAccessEntry
	// longest path first so the most specific prefix wins.
	prefixes []PageAccessEntry
}

// Grants maps each capability to the roles that hold it.
type Grants map[Capability][]Role

// NewResolver builds a frozen Resolver from grants and a page table. Every
// role named in grants or pages must be one of [AllRoles].
func NewResolver(grants Grants, pages []PageAccessEntry) (*Resolver, error) {
	registry := NewRegistry()

	caps := make([]Capability, 0, len(grants))
	for c := range grants {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })

	for _, c := range caps {
		if _, err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	registry.Freeze()

	perRole := make(map[Role][]Capability, len(allRoles))
	for _, c := range caps {
		for _, r := range grants[c] {
			if !r.Known() {
				return nil, fmt.Errorf("%w: %q granted %s", ErrInvalidRole, r, c)
			}
			perRole[r] = append(perRole[r], c)
		}
	}

	roles := NewRoleManager(registry)
	for _, r := range allRoles {
		if err := roles.RegisterRole(r, perRole[r]); err != nil {
			return nil, err
		}
	}
	roles.Freeze()

	res := &Resolver{
		registry: registry,
		roles:    roles,
		exact:    make(map[string]PageAccessEntry, len(pages)),
	}

	for _, p := range pages {
		path := normalizePath(p.Path)
		if path == "" {
			return nil, errors.New("page access entry has empty path")
		}
		if _, dup := res.exact[path]; dup {
			return nil, fmt.Errorf("duplicate page access entry %q", path)
		}
		for _, r := range p.AllowedRoles {
			if !r.Known() {
				return nil, fmt.Errorf("%w: %q allowed on %s", ErrInvalidRole, r, path)
			}
		}
		p.Path = path
		p.AllowedRoles = cloneRoles(p.AllowedRoles)
		res.exact[path] = p
		res.prefixes = append(res.prefixes, p)
	}
	sort.SliceStable(res.prefixes, func(i, j int) bool {
		return len(res.prefixes[i].Path) > len(res.prefixes[j].Path)
	})

	return res, nil
}

// Mask returns the capability mask of role. Unknown roles return zero and
// false.
func (r *Resolver) Mask(role Role) (Mask64, bool) {
	return r.roles.Mask(role)
}

// Has reports whether role holds capability c.
func (r *Resolver) Has(role Role, c Capability) bool {
	mask, ok := r.roles.Mask(role)
	if !ok {
		return false
	}
	return r.MaskHas(mask, c)
}

// MaskHas reports whether a previously resolved mask carries capability c.
func (r *Resolver) MaskHas(mask Mask64, c Capability) bool {
	bit, ok := r.registry.Bit(c)
	if !ok {
		return false
	}
	return mask.Has(bit)
}

// CapabilitiesOf lists the capabilities held by role.
func (r *Resolver) CapabilitiesOf(role Role) []Capability {
	mask, ok := r.roles.Mask(role)
	if !ok {
		return nil
	}
	return r.registry.Names(mask)
}

// Lookup returns the page entry governing path: an exact match if one
// exists, otherwise the longest registered prefix ending on a segment
// boundary.
func (r *Resolver) Lookup(path string) (PageAccessEntry, bool) {
	path = normalizePath(path)
	if path == "" {
		return PageAccessEntry{}, false
	}
	if e, ok := r.exact[path]; ok {
		return e, true
	}
	for _, e := range r.prefixes {
		if strings.HasPrefix(path, e.Path+"/") {
			return e, true
		}
	}
	return PageAccessEntry{}, false
}

// IsAccessAllowed reports whether role may open path.
func (r *Resolver) IsAccessAllowed(path string, role Role) bool {
	if !role.Known() {
		return false
	}
	e, ok := r.Lookup(path)
	if !ok {
		return false
	}
	return e.Allows(role)
}

// Pages returns the page table sorted by path.
func (r *Resolver) Pages() []PageAccessEntry {
	out := clonePages(r.prefixes)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// normalizePath returns "" for paths that must be denied outright. Dot
// segments are rejected rather than resolved so a guarded prefix can never
// match a path that climbs out of it.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return ""
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return ""
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
