package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Marshal converts a description to indented JSON bytes.
func Marshal(d Description) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes a description to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(d Description, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}

// Write encodes a description as JSON to w.
func Write(d Description, w io.Writer) error {
	if d.Edges == nil {
		d.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON description. It rejects descriptions without a root and
// edges that do not start at the root.
func Read(r io.Reader) (Description, error) {
	var d Description
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Description{}, fmt.Errorf("decode: %w", err)
	}
	if d.Root == "" {
		return Description{}, fmt.Errorf("decode: missing root")
	}
	for i, e := range d.Edges {
		if e.From != d.Root {
			return Description{}, fmt.Errorf("decode: edge %d starts at %q, not root %q", i, e.From, d.Root)
		}
	}
	return d, nil
}
