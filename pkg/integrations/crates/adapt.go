package crates

import "github.com/matzehuels/lockgraph/pkg/deps"

// Record is one decoded entry of a crates.io "dependencies" array. Values
// keep their JSON types: strings, bools and float64 numbers.
type Record map[string]any

// Fields read from a Record.
const (
	FieldCrateID  = "crate_id"
	FieldReq      = "req"
	FieldOptional = "optional"
	FieldKind     = "kind"
)

// CrateID returns the record's crate identifier. ok is false when the field
// is absent, empty, or not a string.
func (r Record) CrateID() (string, bool) {
	id, ok := r[FieldCrateID].(string)
	return id, ok && id != ""
}

func (r Record) str(key string) string {
	s, _ := r[key].(string)
	return s
}

// Adapt extracts the crate identifier of each record, in order. Records
// without a usable identifier are skipped.
func Adapt(records []Record) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		if id, ok := r.CrateID(); ok {
			names = append(names, id)
		}
	}
	return names
}

// AdaptDependencies is [Adapt] keeping the version requirement, kind and
// optional flag of each record. A missing kind is reported as normal.
func AdaptDependencies(records []Record) []deps.Dependency {
	out := make([]deps.Dependency, 0, len(records))
	for _, r := range records {
		id, ok := r.CrateID()
		if !ok {
			continue
		}
		kind := r.str(FieldKind)
		if kind == "" {
			kind = deps.KindNormal
		}
		optional, _ := r[FieldOptional].(bool)
		out = append(out, deps.Dependency{
			Name:     id,
			Version:  r.str(FieldReq),
			Optional: optional,
			Kind:     kind,
		})
	}
	return out
}
