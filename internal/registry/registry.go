// Package registry holds the typed mapping from generation-unit name to
// its record, with eager validation of the backing executables.
package registry

import (
	"errors"
	"fmt"
	"os"

	"github.com/raoulx24/dotfile-archiver/internal/config"
)

var (
	ErrUnknownUnit   = errors.New("unknown generation unit")
	ErrNotExecutable = errors.New("unit executable missing or not executable")
)

// Unit is one generation unit: an external executable producing a single
// artifact in the latest directory.
type Unit struct {
	Name        string
	DisplayName string
	Description string
	Executable  string
	Artifact    string
}

type Registry struct {
	byName map[string]Unit
	order  []string
}

// FromConfig builds the registry from the configured unit list, preserving
// configuration order. Duplicate names are rejected by config validation
// before this point.
func FromConfig(units []config.UnitConfig) *Registry {
	r := &Registry{byName: make(map[string]Unit, len(units))}
	for _, u := range units {
		unit := Unit{
			Name:        u.Name,
			DisplayName: u.DisplayName,
			Description: u.Description,
			Executable:  u.Executable,
			Artifact:    u.Artifact,
		}
		if unit.DisplayName == "" {
			unit.DisplayName = unit.Name
		}
		r.byName[u.Name] = unit
		r.order = append(r.order, u.Name)
	}
	return r
}

// Lookup returns the unit for name.
func (r *Registry) Lookup(name string) (Unit, error) {
	u, ok := r.byName[name]
	if !ok {
		return Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return u, nil
}

// Names returns unit names in configuration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Units returns all units in configuration order.
func (r *Registry) Units() []Unit {
	out := make([]Unit, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Validate checks every named unit up front: it must exist in the registry
// and its executable must exist and carry an execute bit. The first invalid
// unit is reported by name and nothing runs.
func (r *Registry) Validate(names []string) error {
	for _, name := range names {
		u, err := r.Lookup(name)
		if err != nil {
			return err
		}
		if err := checkExecutable(u.Executable); err != nil {
			return fmt.Errorf("%w: unit %q (%s)", ErrNotExecutable, u.Name, u.Executable)
		}
	}
	return nil
}

func checkExecutable(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if st.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%s has no execute permission", path)
	}
	return nil
}
