package loadconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrInaccessiblePath        = errors.New("inaccessible path")
	ErrCannotCreateDirectories = errors.New("cannot create directories")
)

type codec struct {
	decode func(data []byte, cfg any) error
	// encode is nil for formats that can only be read.
	encode func(cfg any) ([]byte, error)
}

var codecs = map[Format]codec{
	FormatEnv: {decode: decodeEnv},
	FormatJSON: {
		decode: json.Unmarshal,
		encode: func(cfg any) ([]byte, error) { return json.MarshalIndent(cfg, "", "  ") },
	},
	FormatTOML: {
		decode: toml.Unmarshal,
		encode: func(cfg any) ([]byte, error) {
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).SetIndentTables(true).Encode(cfg); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	},
	FormatYAML: {
		decode: yaml.Unmarshal,
		encode: yaml.Marshal,
	},
}

// CanEncode reports whether values can be persisted in format f.
func CanEncode(f Format) bool {
	return codecs[f].encode != nil
}

// EnsurePath ensures the directories for a file path exist and the path
// does not already exist as a directory.
func EnsurePath(p string) error {
	info, err := os.Stat(p)
	switch {
	case err == nil:
		if info.IsDir() {
			return ErrInaccessiblePath
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return ErrInaccessiblePath
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return ErrCannotCreateDirectories
	}
	return nil
}

func loadFromFile(path string, f Format, cfg any) error {
	c, ok := codecs[f]
	if !ok {
		return &ExtensionError{Extension: f.Extension()}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	if err := c.decode(data, cfg); err != nil {
		return fmt.Errorf("%w %s: %w", ErrParse, path, err)
	}
	return nil
}

func encode(f Format, cfg any) (data []byte, retErr error) {
	// Guard against panics from encoders (e.g., yaml on unsupported kinds like func).
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("%w as %s: %v", ErrFormat, f, r)
		}
	}()

	c := codecs[f]
	if c.encode == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoEncoder, f)
	}
	data, err := c.encode(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %w", ErrFormat, f, err)
	}
	return data, nil
}

func writeToFile(path string, f Format, cfg any) error {
	data, err := encode(f, cfg)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "temp-config-*."+f.Extension())
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrWrite, err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("%w: rename temp file to %s: %w", ErrWrite, path, err)
	}
	return nil
}
