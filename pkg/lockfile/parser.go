package lockfile

import (
	"bufio"
	"io"
	"strings"
)

type state int

const (
	stateIdle state = iota
	stateInPackage
	stateInDependencyList
)

// scanner holds the per-parse state. Each Parse call owns one.
type scanner struct {
	state   state
	name    string
	version string
	deps    []string
	out     *Mapping
}

func newScanner() *scanner {
	return &scanner{out: newMapping()}
}

// flush commits the current package if it has both a name and a version.
func (s *scanner) flush() {
	if s.name != "" && s.version != "" {
		deps := s.deps
		if deps == nil {
			deps = []string{}
		}
		s.out.put(Identity{Name: s.name, Version: s.version}, deps)
	}
	s.name, s.version, s.deps = "", "", nil
}

func (s *scanner) feed(raw string) {
	l := Classify(raw, s.state == stateInDependencyList)

	switch l.Kind {
	case LineSection:
		s.flush()
		s.state = stateInPackage
	case LineOtherSection:
		s.flush()
		s.state = stateIdle
	case LineName:
		if s.state != stateIdle {
			s.name = l.Value
		}
	case LineVersion:
		if s.state != stateIdle {
			s.version = l.Value
		}
	case LineDepsOpen:
		if s.state != stateIdle {
			s.state = stateInDependencyList
		}
	case LineDepsInline:
		if s.state != stateIdle {
			s.deps = append(s.deps, l.Values...)
		}
	case LineDepsEntry:
		s.deps = append(s.deps, l.Value)
		if l.Closes {
			s.state = stateInPackage
		}
	case LineDepsClose:
		s.state = stateInPackage
	}
}

func (s *scanner) finish() *Mapping {
	s.flush()
	return s.out
}

// Parse extracts a [Mapping] from lockfile text. It never fails: malformed or
// unknown lines are skipped.
func Parse(text string) *Mapping {
	s := newScanner()
	for line := range strings.Lines(text) {
		s.feed(line)
	}
	return s.finish()
}

// Read streams lockfile text from r through the same scanner as [Parse]. The
// only errors returned come from r.
func Read(r io.Reader) (*Mapping, error) {
	s := newScanner()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		s.feed(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s.finish(), nil
}
