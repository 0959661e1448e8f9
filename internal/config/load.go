// internal/config/load.go
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file. Unknown keys are rejected.
// The result is neither validated nor normalized.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "read config %s", path)
	}
	return Parse(b)
}

// Parse decodes YAML bytes. An empty document yields a zero Config.
func Parse(b []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Annotate(err, "decode config")
	}
	return &cfg, nil
}

