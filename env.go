package loadconf

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ygrebnov/loadconf/internal/fieldset"
)

const envVarTagName = "env"

// decodeEnv parses KEY=VALUE lines and binds them into cfg. Struct fields are
// keyed by their `env` tag or by the field name in SCREAMING_SNAKE_CASE; nested
// structs contribute a segment joined with "_".
func decodeEnv(data []byte, cfg any) error {
	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", cfg)
	}
	switch m := cfg.(type) {
	case *map[string]string:
		*m = vars
		return nil
	case *map[string]any:
		out := make(map[string]any, len(vars))
		for k, v := range vars {
			out[k] = v
		}
		*m = out
		return nil
	}
	if rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("cannot bind env data into %T", cfg)
	}
	return applyEnv(rv.Elem(), vars, nil)
}

func applyEnv(v reflect.Value, vars map[string]string, segments []string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		tag := sf.Tag.Get(envVarTagName)
		if tag == "-" {
			continue
		}
		seg := tag
		if seg == "" {
			seg = fieldset.ToScreamingSnake(sf.Name)
		}
		field := v.Field(i)
		path := append(append([]string(nil), segments...), seg)
		name := strings.Join(path, "_")

		switch {
		case field.Kind() == reflect.Struct:
			if err := applyEnv(field, vars, path); err != nil {
				return err
			}
		case field.Kind() == reflect.Pointer && field.Type().Elem().Kind() == reflect.Struct:
			// Allocate *struct only if there is at least one nested key for this
			// segment (e.g., PINNER_*).
			if !hasAnyWithPrefix(vars, name+"_") {
				continue
			}
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := applyEnv(field.Elem(), vars, path); err != nil {
				return err
			}
		case fieldset.Settable(field.Type()):
			raw, ok := vars[name]
			if !ok {
				continue
			}
			if err := fieldset.Set(field, raw); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

func hasAnyWithPrefix(vars map[string]string, prefix string) bool {
	for k := range vars {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}
