package lockfile

import "strings"

const (
	sectionMarker = "[[package]]"
	keyName       = "name"
	keyVersion    = "version"
	keyDeps       = "dependencies"
	listOpen      = "["
	listClose     = "]"
	quote         = `"`
)

// LineKind tags how the scanner interprets a single trimmed line.
type LineKind int

const (
	// LineIgnored is any line with no meaning to the scanner: blanks,
	// comments, unknown keys, and quote-less lines inside a dependency list.
	LineIgnored LineKind = iota
	// LineSection is the [[package]] marker that starts a new package.
	LineSection
	// LineOtherSection is any other table header, such as [metadata] or
	// [[patch.unused]]. It ends the current package.
	LineOtherSection
	// LineName carries the value of a name field.
	LineName
	// LineVersion carries the value of a version field.
	LineVersion
	// LineDepsOpen opens a multi-line dependency list.
	LineDepsOpen
	// LineDepsInline is a dependency list opened and closed on one line.
	// Values holds every dependency name found on it.
	LineDepsInline
	// LineDepsEntry is a quoted dependency inside an open list.
	LineDepsEntry
	// LineDepsClose closes the open dependency list.
	LineDepsClose
)

var kindNames = [...]string{
	LineIgnored:      "ignored",
	LineSection:      "section",
	LineOtherSection: "other-section",
	LineName:         "name",
	LineVersion:      "version",
	LineDepsOpen:     "deps-open",
	LineDepsInline:   "deps-inline",
	LineDepsEntry:    "deps-entry",
	LineDepsClose:    "deps-close",
}

func (k LineKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Line is the classification of one input line.
//
// Value is set for LineName, LineVersion and LineDepsEntry. Values is set for
// LineDepsInline. Closes reports whether a LineDepsEntry also ends the list
// (an entry followed by "]" on the same line).
type Line struct {
	Kind   LineKind
	Value  string
	Values []string
	Closes bool
}

// Classify interprets a single line. inList reports whether the scanner is
// currently inside a dependency list, which changes how quoted lines are
// read. Leading and trailing whitespace is ignored.
func Classify(raw string, inList bool) Line {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return Line{Kind: LineIgnored}
	}
	if line == sectionMarker {
		return Line{Kind: LineSection}
	}
	if isTableHeader(line) {
		return Line{Kind: LineOtherSection}
	}
	if inList {
		return classifyListLine(line)
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return Line{Kind: LineIgnored}
	}
	value = strings.TrimSpace(value)

	switch strings.TrimSpace(key) {
	case keyName:
		return Line{Kind: LineName, Value: unquote(value)}
	case keyVersion:
		return Line{Kind: LineVersion, Value: unquote(value)}
	case keyDeps:
		if !strings.HasPrefix(value, listOpen) {
			return Line{Kind: LineIgnored}
		}
		if strings.Contains(value, listClose) {
			return Line{Kind: LineDepsInline, Values: inlineNames(value)}
		}
		return Line{Kind: LineDepsOpen}
	}
	return Line{Kind: LineIgnored}
}

func classifyListLine(line string) Line {
	if line == listClose {
		return Line{Kind: LineDepsClose}
	}
	name, ok := firstQuotedWord(line)
	if !ok {
		return Line{Kind: LineIgnored}
	}
	return Line{
		Kind:   LineDepsEntry,
		Value:  name,
		Closes: strings.HasSuffix(line, listClose),
	}
}

func isTableHeader(line string) bool {
	return strings.HasPrefix(line, listOpen) &&
		strings.HasSuffix(line, listClose) &&
		!strings.Contains(line, quote)
}

// unquote strips one pair of surrounding quote characters, if present.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) {
		return s[1 : len(s)-1]
	}
	return strings.Trim(s, quote)
}

// firstQuotedWord returns the first whitespace-delimited word inside the first
// quoted segment of line. Registry lockfiles append a version requirement after
// the name inside the same string: "serde_derive 1.0.200".
func firstQuotedWord(line string) (string, bool) {
	_, rest, ok := strings.Cut(line, quote)
	if !ok {
		return "", false
	}
	segment, _, ok := strings.Cut(rest, quote)
	if !ok {
		return "", false
	}
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// inlineNames collects the leading word of every quoted segment in a
// single-line list such as ["a 1.0", "b"].
func inlineNames(value string) []string {
	var names []string
	parts := strings.Split(value, quote)
	for i := 1; i < len(parts); i += 2 {
		if fields := strings.Fields(parts[i]); len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return names
}
