package deps

import "time"

// DefaultCacheTTL is how long fetched lock text and registry responses are
// reused before being requested again.
const DefaultCacheTTL = 24 * time.Hour

// Dependency kinds as reported by crates.io and Cargo.toml tables.
const (
	KindNormal = "normal"
	KindDev    = "dev"
	KindBuild  = "build"
)

// Dependency is one direct dependency of a package.
//
// Lock-derived records carry only Name. Registry and manifest records also
// carry the version requirement, the kind and whether the dependency is
// optional (feature-gated).
type Dependency struct {
	Name     string `json:"name"`
	Version  string `json:"version,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

// FromNames wraps plain dependency names as records.
func FromNames(names []string) []Dependency {
	out := make([]Dependency, len(names))
	for i, n := range names {
		out[i] = Dependency{Name: n}
	}
	return out
}

// Names returns the dependency names in order.
func Names(ds []Dependency) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Name
	}
	return out
}

// Options configures how a source fetches dependency data.
type Options struct {
	CacheTTL     time.Duration        // How long fetched data is reused (default: 24h)
	Refresh      bool                 // Bypass cache for fresh data
	SkipOptional bool                 // Drop optional dependencies
	Logger       func(string, ...any) // Progress/error callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Filter applies the options that act on fetched records.
func (o Options) Filter(ds []Dependency) []Dependency {
	if !o.SkipOptional {
		return ds
	}
	out := make([]Dependency, 0, len(ds))
	for _, d := range ds {
		if !d.Optional {
			out = append(out, d)
		}
	}
	return out
}
