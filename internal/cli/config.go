package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML compile-options file. Unknown fields are rejected so
// typos fail loudly instead of silently compiling with defaults.
type Config struct {
	PrefixIdentifiers bool              `yaml:"prefixIdentifiers"`
	Inline            bool              `yaml:"inline"`
	RuntimeGlobal     string            `yaml:"runtimeGlobal"`
	Bindings          map[string]string `yaml:"bindings"`
}

// LoadConfig reads and validates a YAML compile-options file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
