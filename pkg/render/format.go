// Package render defines the output formats lockgraph can produce.
//
// The format of an output file is chosen explicitly or inferred from the
// file extension:
//
//	f, err := render.FormatFromPath("dependencies.svg") // render.SVG
//
// Drawing itself lives in the [nodelink] subpackage.
package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	DOT Format = "dot"
)

// Formats lists every supported format.
var Formats = []Format{PNG, SVG, DOT}

// Ext returns the file extension for f, including the leading dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case SVG:
		return "image/svg+xml"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// Image reports whether f needs an image renderer.
func (f Format) Image() bool { return f == PNG || f == SVG }

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want png, svg or dot)", s)
}

// FormatFromPath infers the format from path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%s: no file extension", path)
	}
	return ParseFormat(ext)
}

// SidecarPath returns the path the DOT text is written to when rendering to
// path fails: the same path with ".dot" appended.
func SidecarPath(path string) string { return path + DOT.Ext() }
