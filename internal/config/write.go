package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"

	"github.com/matzehuels/lockgraph/pkg/errors"
)

// csvOrder is the row order of generated CSV files.
var csvOrder = []string{
	"package_name",
	"repository_url",
	"use_test_repository",
	"package_version",
	"output_filename",
	"max_depth",
	"filter_substring",
	"mode",
}

// DefaultFileValues returns the starter configuration written by
// [WriteDefault]: serde 1.0.200 from crates.io.
func DefaultFileValues() map[string]any {
	return map[string]any{
		"package_name":        "serde",
		"version":             "1.0.200",
		"mode":                ModeRegistry,
		"source":              "https://crates.io/api/v1",
		"use_test_repository": false,
		"output":              "dependencies_graph.png",
		"max_depth":           DefaultMaxDepth,
		"filter_substring":    "",
	}
}

// WriteDefault writes a starter config file at path. The format follows the
// extension (.csv, .yaml or .yml). An existing file is only replaced when
// force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists", path)
		}
	}

	values := DefaultFileValues()
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		// CSV files keep the original column names.
		legacy := make(map[string]any, len(values))
		for k, v := range values {
			legacy[legacyName(k)] = v
		}
		data, err = marshalCSV(legacy, csvOrder)
	case ".yaml", ".yml":
		data, err = yaml.Parser().Marshal(values)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config file type %q (want .yaml, .yml or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode default config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

func legacyName(key string) string {
	for old, cur := range aliases {
		if cur == key {
			return old
		}
	}
	return key
}
