package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/lockgraph/pkg/errors"
)

// EnvPrefix prefixes environment variables: LOCKGRAPH_PACKAGE_NAME sets
// package_name.
const EnvPrefix = "LOCKGRAPH_"

// SearchPaths are tried in order when no config file is named.
var SearchPaths = []string{"lockgraph.yaml", "lockgraph.yml", "config.csv"}

// aliases maps older key names onto current ones.
var aliases = map[string]string{
	"repository_url":  "source",
	"output_filename": "output",
	"package_version": "version",
}

// flagKeys maps flag names whose config key is not simply the snake_case
// form of the flag.
var flagKeys = map[string]string{
	"package":         "package_name",
	"package-version": "version",
	"filter":          "filter_substring",
	"test-repo":       "use_test_repository",
	"allow-url":       "allowed_urls",
}

// Load builds a Config from defaults, the config file, the environment and
// the changed flags in fs, in increasing order of precedence. overrides are
// applied last; the CLI passes positional arguments through them.
//
// An explicitly named file must exist. Without one, the first of
// [SearchPaths] present in the working directory is used, if any.
func Load(path string, fs *pflag.FlagSet, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	used, err := findFile(path)
	if err != nil {
		return nil, err
	}
	if used != "" {
		values, err := readFile(used)
		if err != nil {
			return nil, err
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, fmt.Errorf("load %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return canonical(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if fs != nil {
		if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(fs, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode configuration")
	}
	cfg.File = used
	return &cfg, nil
}

func findFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", explicit)
		}
		return explicit, nil
	}
	for _, p := range SearchPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// readFile parses a config file and renames aliased keys.
func readFile(path string) (map[string]any, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	fk := koanf.New(".")
	if err := fk.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	values := make(map[string]any, len(fk.Keys()))
	for key, v := range fk.All() {
		values[canonical(key)] = v
	}
	return values, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".csv":
		return CSVParser(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config file type %q (want .yaml, .yml or .csv)", filepath.Ext(path))
}

func canonical(key string) string {
	if c, ok := aliases[key]; ok {
		return c
	}
	return key
}

func flagKey(name string) string {
	if k, ok := flagKeys[name]; ok {
		return k
	}
	return strings.ReplaceAll(name, "-", "_")
}
