package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-interstitial/pkg/loadtime"
)

var (
	// ErrEmpty is returned for files without content.
	ErrEmpty = errors.New("loader: empty strings file")
	// ErrNotMapping is returned when the top level is not a key/value mapping.
	ErrNotMapping = errors.New("loader: top level must be a mapping")
	// ErrUnsupported is returned for file extensions other than JSON and YAML.
	ErrUnsupported = errors.New("loader: unsupported file type")
)

// LoadFile reads a strings file from disk.
func LoadFile(path string) (map[string]loadtime.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a strings file from fsys.
func LoadFS(fsys fs.FS, path string) (map[string]loadtime.Value, error) {
	if fsys == nil {
		return nil, fmt.Errorf("loader: read %s: nil filesystem", path)
	}
	if !IsStringsFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadStore reads path from fsys and returns a store holding its values.
func LoadStore(fsys fs.FS, path string, options ...loadtime.Option) (*loadtime.Store, error) {
	data, err := LoadFS(fsys, path)
	if err != nil {
		return nil, err
	}
	return loadtime.NewWithData(data, options...), nil
}

// Parse decodes a strings mapping. JSON is tried first, then YAML; source
// only names the input in errors.
func Parse(data []byte, source string) (map[string]loadtime.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, source)
	}

	raw, err := decode(data)
	if errors.Is(err, ErrNotMapping) {
		return nil, fmt.Errorf("%w: %s", ErrNotMapping, source)
	}
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", source, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotMapping, source)
	}

	out := make(map[string]loadtime.Value, len(raw))
	for key, item := range raw {
		value, err := loadtime.FromAny(item)
		if err != nil {
			return nil, fmt.Errorf("loader: %s key %q: %w", source, key, err)
		}
		out[key] = value
	}
	return out, nil
}

func decode(data []byte) (map[string]any, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err == nil {
		return raw, nil
	}

	raw = nil
	if err := yaml.Unmarshal(data, &raw); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotMapping
		}
		return nil, errors.New("invalid JSON or YAML")
	}
	return raw, nil
}

// IsStringsFile reports whether path has a JSON or YAML extension.
func IsStringsFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
