package loadconf

import (
	"errors"
	"fmt"
)

// Format is one of the supported configuration file encodings.
type Format int

const (
	formatUnknown Format = iota
	// FormatEnv is the line-oriented KEY=VALUE format.
	FormatEnv
	// FormatJSON is JSON.
	FormatJSON
	// FormatTOML is TOML.
	FormatTOML
	// FormatYAML is YAML.
	FormatYAML
)

// ErrInvalidExtension is matched by every *ExtensionError.
var ErrInvalidExtension = errors.New("invalid config file extension")

// ExtensionError reports an extension token that names no supported Format.
type ExtensionError struct {
	Extension string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidExtension, e.Extension)
}

func (e *ExtensionError) Unwrap() error { return ErrInvalidExtension }

// Aliases are matched literally; "YML" is not "yml". Every canonical
// extension is also an alias of its own format.
var formatAliases = map[Format][]string{
	FormatEnv:  {"", "local", "development", "test", "env"},
	FormatJSON: {"json"},
	FormatTOML: {"toml"},
	FormatYAML: {"yml", "yaml"},
}

var formatExtensions = map[Format]string{
	FormatEnv:  "env",
	FormatJSON: "json",
	FormatTOML: "toml",
	FormatYAML: "yml",
}

// Formats returns every supported format in declaration order.
func Formats() []Format {
	return []Format{FormatEnv, FormatJSON, FormatTOML, FormatYAML}
}

// ParseFormat classifies an extension token. It never falls back to a default
// format: unknown tokens yield an *ExtensionError carrying the token.
func ParseFormat(token string) (Format, error) {
	for _, f := range Formats() {
		for _, alias := range formatAliases[f] {
			if alias == token {
				return f, nil
			}
		}
	}
	return formatUnknown, &ExtensionError{Extension: token}
}

// Extension returns the canonical file suffix (without the dot) used to build
// paths for f.
func (f Format) Extension() string {
	if ext, ok := formatExtensions[f]; ok {
		return ext
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Aliases returns the tokens ParseFormat accepts for f.
func (f Format) Aliases() []string {
	return append([]string(nil), formatAliases[f]...)
}

func (f Format) String() string { return f.Extension() }

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if _, ok := formatExtensions[f]; !ok {
		return nil, fmt.Errorf("invalid format %d", int(f))
	}
	return []byte(f.Extension()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseFormat.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
