/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/suparena/objectstore/errors"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
)

// Formats understood by Load.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Config selects a store backend and declares the model types kept in it.
type Config struct {
	Backend  string         `yaml:"backend" toml:"backend"`
	SQLite   SQLiteConfig   `yaml:"sqlite" toml:"sqlite"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb" toml:"dynamodb"`
	Models   []ModelConfig  `yaml:"models" toml:"models"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// DynamoDBConfig holds the table settings. Credentials never come from the
// file; see ApplyEnv.
type DynamoDBConfig struct {
	Table      string `yaml:"table" toml:"table"`
	Region     string `yaml:"region" toml:"region"`
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	PageSize   int32  `yaml:"pageSize" toml:"pageSize"`
	MaxRetries int    `yaml:"maxRetries" toml:"maxRetries"`

	AccessKey string `yaml:"-" toml:"-"`
	SecretKey string `yaml:"-" toml:"-"`
}

// ModelConfig declares one model type.
type ModelConfig struct {
	Name         string        `yaml:"name" toml:"name"`
	KeyType      string        `yaml:"keyType" toml:"keyType"`
	ResetKeyType bool          `yaml:"resetKeyType" toml:"resetKeyType"`
	KeyField     string        `yaml:"keyField" toml:"keyField"`
	Extends      []string      `yaml:"extends" toml:"extends"`
	Collection   bool          `yaml:"collection" toml:"collection"`
	Fields       []FieldConfig `yaml:"fields" toml:"fields"`
}

// FieldConfig declares one field. As names the record field when it differs
// from Name.
type FieldConfig struct {
	Name       string `yaml:"name" toml:"name"`
	As         string `yaml:"as" toml:"as"`
	Type       string `yaml:"type" toml:"type"`
	Required   bool   `yaml:"required" toml:"required"`
	Default    any    `yaml:"default" toml:"default"`
	Serializer string `yaml:"serializer" toml:"serializer"`
}

// Load reads a configuration in the given format and validates it.
func Load(data io.Reader, format string) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	switch format {
	case FormatYAML, "yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err = dec.Decode(cfg); errors.Is(err, io.EOF) {
			// empty document
			err = nil
		}
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(buf)).DisallowUnknownFields().Decode(cfg)
	default:
		return nil, errors.Newf("unknown config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s config", format)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the configuration at path; the format follows the extension.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config %s", path)
	}
	defer f.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	cfg, err := Load(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given: an empty
// in-memory store.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "objects.db"
	}
	if c.DynamoDB.Table == "" {
		c.DynamoDB.Table = "objects"
	}
	if c.DynamoDB.PageSize == 0 {
		c.DynamoDB.PageSize = 100
	}
	if c.DynamoDB.MaxRetries == 0 {
		c.DynamoDB.MaxRetries = 3
	}
}

// Validate checks the backend name and model declarations. Type level
// problems such as clashing fields surface later, in BuildTypes.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite, BackendDynamoDB:
	default:
		return errors.NewValidationError("backend", "must be one of memory, sqlite, dynamodb; got "+c.Backend)
	}

	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m.Name == "" {
			return errors.NewValidationError("models", "model without a name")
		}
		if seen[m.Name] {
			return errors.NewValidationError("models", "model "+m.Name+" declared twice")
		}
		seen[m.Name] = true
		for _, f := range m.Fields {
			if f.Name == "" {
				return errors.NewValidationError("models", "model "+m.Name+" has a field without a name")
			}
		}
	}
	return nil
}
