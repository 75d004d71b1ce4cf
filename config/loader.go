package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name looked up in the working directory.
const DefaultConfigFile = "cerco.yaml"

// xdgConfigFile is the path looked up under the XDG configuration
// directories.
const xdgConfigFile = "cerco/config.yaml"

// Load reads a settings file. Fields missing from the file keep their
// defaults. If the file does not exist, it returns ErrConfigNotFound.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode reads settings from r on top of the defaults. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Decode(r io.Reader) (*File, error) {
	f := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Find searches for the configuration file in the following order:
// 1. If explicit is specified, use it directly
// 2. Look for cerco.yaml in the current directory
// 3. Look for cerco/config.yaml in the XDG configuration directories
//
// Returns the path to the configuration file, or ErrConfigNotFound.
func Find(explicit string) (string, error) {
	// If explicit path is provided, use it
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return explicit, nil
	}

	// Check current directory
	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	// Check XDG directories
	if path, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return path, nil
	}

	return "", ErrConfigNotFound
}

// LoadOrDefault loads the file Find resolves for explicit. When no file is
// found and explicit is empty, the defaults are returned.
func LoadOrDefault(explicit string) (*File, string, error) {
	path, err := Find(explicit)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) && explicit == "" {
			return Default(), "", nil
		}
		return nil, "", err
	}

	f, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}
