package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
)

const (
	ConfigDelimiter string = "."
	unmarshalTag    string = "json"
)

// LoadFile reads a JSON or YAML file (chosen by extension) and decodes it into out
// using the json struct tags of out. Values in defaults are loaded first and are
// overridden by the file.
func LoadFile(path string, defaults map[string]interface{}, out interface{}) error {
	parser, err := parserFor(path)
	if err != nil {
		return err
	}
	k := koanf.New(ConfigDelimiter)
	if len(defaults) > 0 {
		if err := k.Load(confmap.Provider(defaults, ConfigDelimiter), nil); err != nil {
			return fmt.Errorf("loading defaults: %w", err)
		}
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", out, koanf.UnmarshalConf{Tag: unmarshalTag}); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
}
