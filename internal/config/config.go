// Package config loads the member book settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/members/internal/credential"
)

// Config holds file locations and startup behaviour.
type Config struct {
	// Database is the SQLite store file.
	Database string `yaml:"database"`

	// Credentials is the JSON account list checked at login.
	Credentials string `yaml:"credentials"`

	// ImportFile is the text file read by the import menu choice.
	ImportFile string `yaml:"import_file"`

	// PasswordHash selects how stored passwords are compared.
	PasswordHash credential.Mode `yaml:"password_hash"`

	// ResetOnStart clears every record after the table is ensured at startup.
	ResetOnStart bool `yaml:"reset_on_start"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Database:     "wanghong.db",
		Credentials:  "pass.json",
		ImportFile:   "members.txt",
		PasswordHash: credential.ModePlain,
		ResetOnStart: true,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. Keys absent from the file keep their default values.
//
// Unknown keys are rejected so typos surface instead of being ignored.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		// An empty document decodes to EOF; keep the defaults.
		if !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required paths are set and the password mode is known.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("config: database is required")
	}
	if c.Credentials == "" {
		return fmt.Errorf("config: credentials is required")
	}
	if c.ImportFile == "" {
		return fmt.Errorf("config: import_file is required")
	}
	if _, err := credential.ParseMode(string(c.PasswordHash)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
