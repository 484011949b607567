package config

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"strings"
)

// CSV parses two-column configuration files:
//
//	parameter,value
//	package_name,serde
//	package_version,1.0.200
//
// The header row is required; rows with an empty parameter are skipped.
// Values stay strings and are converted when the config is decoded.
type CSV struct{}

// CSVParser returns a koanf parser for parameter,value files.
func CSVParser() *CSV { return &CSV{} }

// Unmarshal parses CSV bytes into a flat map.
func (p *CSV) Unmarshal(b []byte) (map[string]any, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	out := map[string]any{}
	if len(rows) == 0 {
		return out, nil
	}

	header := rows[0]
	param := slices.IndexFunc(header, func(s string) bool { return strings.TrimSpace(s) == "parameter" })
	value := slices.IndexFunc(header, func(s string) bool { return strings.TrimSpace(s) == "value" })
	if param < 0 || value < 0 {
		return nil, fmt.Errorf("csv header must contain parameter and value columns, got %q", strings.Join(header, ","))
	}

	for _, row := range rows[1:] {
		if param >= len(row) {
			continue
		}
		key := strings.TrimSpace(row[param])
		if key == "" {
			continue
		}
		v := ""
		if value < len(row) {
			v = strings.TrimSpace(row[value])
		}
		out[key] = v
	}
	return out, nil
}

// Marshal writes a flat map as parameter,value rows in the given key order
// first, then any remaining keys sorted.
func (p *CSV) Marshal(m map[string]any) ([]byte, error) {
	return marshalCSV(m, nil)
}

func marshalCSV(m map[string]any, order []string) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	keys = append(keys, rest...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"parameter", "value"}); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := w.Write([]string{k, fmt.Sprint(m[k])}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
