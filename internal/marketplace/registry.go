package marketplace

import (
	"fmt"
	"sort"
)

// Spec describes one connector to construct. Kind selects the adapter;
// "mock" venues get a deterministic price shift derived from the name so
// distinct mocks disagree on price.
type Spec struct {
	Name     string
	Kind     string // "mock" or "api"
	BaseURL  string
	APIKey   string
	ShiftPct int
}

// Registry holds the active connectors keyed by marketplace name.
type Registry struct {
	connectors map[string]Connector
}

// NewRegistry builds connectors from specs. An unknown kind or a duplicate
// name is a configuration error, not something to limp past.
func NewRegistry(specs []Spec) (*Registry, error) {
	r := &Registry{connectors: make(map[string]Connector, len(specs))}
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("marketplace spec missing name")
		}
		if _, dup := r.connectors[s.Name]; dup {
			return nil, fmt.Errorf("duplicate marketplace %q", s.Name)
		}
		switch s.Kind {
		case "mock":
			r.connectors[s.Name] = NewMock(s.Name, s.ShiftPct)
		case "api":
			if s.BaseURL == "" {
				return nil, fmt.Errorf("marketplace %q: api connector requires base_url", s.Name)
			}
			r.connectors[s.Name] = NewAPI(s.Name, s.BaseURL, s.APIKey, nil)
		default:
			return nil, fmt.Errorf("marketplace %q: unknown kind %q", s.Name, s.Kind)
		}
	}
	return r, nil
}

func (r *Registry) Get(name string) (Connector, error) {
	c, ok := r.connectors[name]
	if !ok {
		return nil, fmt.Errorf("unknown marketplace %q", name)
	}
	return c, nil
}

// All returns the connectors in name order for deterministic iteration.
func (r *Registry) All() []Connector {
	names := make([]string, 0, len(r.connectors))
	for name := range r.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Connector, 0, len(names))
	for _, name := range names {
		out = append(out, r.connectors[name])
	}
	return out
}

// Replace swaps in a connector under its own name, adding it if absent.
func (r *Registry) Replace(c Connector) {
	r.connectors[c.Name()] = c
}

func (r *Registry) Len() int { return len(r.connectors) }
