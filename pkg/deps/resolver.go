package deps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/lockgraph/pkg/lockfile"
)

// ErrNotFound is matched by every [*NotFoundError].
var ErrNotFound = errors.New("package version not found")

// NotFoundError reports that a (name, version) pair is absent from a source.
type NotFoundError struct {
	Name    string
	Version string
	// Available lists the versions of Name the source does have, in source
	// order. Empty when the package is absent entirely.
	Available []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %s not present in source", e.Name, e.Version)
	if len(e.Available) > 0 {
		msg += " (available: " + strings.Join(e.Available, ", ") + ")"
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Resolve returns the direct dependency names stored for (name, version).
// The result is a copy; m is never modified.
func Resolve(m *lockfile.Mapping, name, version string) ([]string, error) {
	names, ok := m.Lookup(lockfile.Identity{Name: name, Version: version})
	if !ok {
		return nil, &NotFoundError{Name: name, Version: version, Available: m.Versions(name)}
	}
	return names, nil
}

// ResolveRecords is [Resolve] returning lock-derived [Dependency] records.
func ResolveRecords(m *lockfile.Mapping, name, version string) ([]Dependency, error) {
	names, err := Resolve(m, name, version)
	if err != nil {
		return nil, err
	}
	return FromNames(names), nil
}
