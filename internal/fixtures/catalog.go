package fixtures

import (
	"fmt"
)

// Catalog is an immutable, ordered collection of fixture profiles. It is
// constructed once at startup and passed to the solver, so it is safe for
// unlimited concurrent readers.
type Catalog struct {
	names    []string
	profiles map[string]*Profile
}

// NewCatalog validates the given profiles and builds a catalog keyed by
// fixture name, preserving the given order. Duplicate names are rejected.
func NewCatalog(profiles ...Profile) (*Catalog, error) {
	c := &Catalog{
		names:    make([]string, 0, len(profiles)),
		profiles: make(map[string]*Profile, len(profiles)),
	}
	for i := range profiles {
		p := profiles[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid fixture profile: %w", err)
		}
		if _, exists := c.profiles[p.Name]; exists {
			return nil, fmt.Errorf("duplicate fixture profile %q", p.Name)
		}
		c.names = append(c.names, p.Name)
		c.profiles[p.Name] = &p
	}
	return c, nil
}

// Get returns the profile for a fixture name.
func (c *Catalog) Get(name string) (*Profile, bool) {
	p, ok := c.profiles[name]
	return p, ok
}

// Names returns the fixture names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Len returns the number of fixtures in the catalog.
func (c *Catalog) Len() int {
	return len(c.names)
}
