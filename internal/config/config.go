// Package config models backend configuration: a flat string map set
// incrementally from repeated `-C key=value` flags (and optionally seeded
// from a `--config-file` YAML document), with typed accessors that parse
// each value the same way a `-P` parameter literal is parsed.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/ablc/internal/types"
)

// Config is backend configuration: an ordered sequence of `-C key=value`
// overrides folded into a flat map, as OpenABL's Config.config is.
type Config struct {
	values map[string]string
}

// New returns an empty Config.
func New() *Config {
	return &Config{values: map[string]string{}}
}

// LoadFile reads path as a YAML document of string keys/values and returns
// a Config seeded from it. Non-string values are rendered to their textual
// form, since every accessor below re-parses the text anyway.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	c := New()
	for k, v := range raw {
		c.values[k] = fmt.Sprintf("%v", v)
	}
	return c, nil
}

// Set stores value under name, overwriting any prior value — this is what
// a `-C name=value` flag calls for each occurrence, in flag order, so a
// later `-C` always wins over an earlier one or a loaded config file.
func (c *Config) Set(name, value string) {
	c.values[name] = value
}

// Has reports whether name was ever set.
func (c *Config) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// All returns a copy of every key/value pair set so far, for callers (the
// backendreq envelope builder) that need to forward the whole configuration
// rather than look up individual keys.
func (c *Config) All() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// GetString returns name's raw string value, or def if unset.
func (c *Config) GetString(name, def string) string {
	if v, ok := c.values[name]; ok {
		return v
	}
	return def
}

// GetBool returns name's value parsed as a bool, or def if unset. It
// returns an error if the value is set but is not a valid bool — OpenABL's
// Config::getBool throws a ConfigError in the equivalent case rather than
// silently falling back to def.
func (c *Config) GetBool(name string, def bool) (bool, error) {
	raw, ok := c.values[name]
	if !ok {
		return def, nil
	}
	v, err := types.FromString(types.Bool, raw)
	if err != nil {
		return false, fmt.Errorf("value of %s must be boolean", name)
	}
	return v.BoolVal, nil
}

// GetInt returns name's value parsed as an int, or def if unset. Like
// GetBool, a present-but-invalid value is an error, not a silent fallback.
func (c *Config) GetInt(name string, def int64) (int64, error) {
	raw, ok := c.values[name]
	if !ok {
		return def, nil
	}
	v, err := types.FromString(types.Int, raw)
	if err != nil {
		return 0, fmt.Errorf("value of %s must be integer", name)
	}
	return v.IntVal, nil
}
