// Package prompt asks for configuration values on the terminal. A Form walks
// the exported fields of a struct and asks one survey question per field;
// Confirm asks a single yes/no question.
//
// Field tags:
//
//	prompt:"label"           question text (defaults to the field name)
//	prompt:"-"               skip the field
//	prompt:"label,secret"    hide the answer
//	prompt:",required"       reject empty answers
//	default:"value"          suggested answer when the field is zero
package prompt

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/ygrebnov/loadconf/internal/fieldset"
	"github.com/ygrebnov/loadconf/streams"
)

var (
	ErrAborted          = errors.New("prompt aborted")
	ErrNotStruct        = errors.New("prompt target is not a struct")
	ErrUnsupportedField = errors.New("unsupported field type")
)

const (
	promptTagName  = "prompt"
	defaultTagName = "default"
)

type askFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// Form fills values of type T by asking for each exported field.
type Form[T any] struct {
	stdio streams.IOStreams
	ask   askFunc
}

// New returns a Form reading from and writing to s. Terminal streams are driven
// by survey; other readers, such as streams.Buffers scripts, are read one answer
// per line. With nil streams survey uses the process stdio.
func New[T any](s streams.IOStreams) *Form[T] {
	return &Form[T]{stdio: s, ask: askerFor(s)}
}

// Prompt builds a new T and fills it.
func (f *Form[T]) Prompt() (*T, error) {
	v := new(T)
	if err := f.Fill(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Fill asks for every field of v. Current non-zero values are offered as the
// default answers.
func (f *Form[T]) Fill(v *T) error {
	rv := reflect.ValueOf(v)
	if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrNotStruct, v)
	}
	return f.walk(rv.Elem(), "")
}

type fieldTag struct {
	label    string
	skip     bool
	secret   bool
	required bool
}

func parseTag(sf reflect.StructField) fieldTag {
	raw := sf.Tag.Get(promptTagName)
	if raw == "-" {
		return fieldTag{skip: true}
	}
	parts := strings.Split(raw, ",")
	ft := fieldTag{label: parts[0]}
	if ft.label == "" {
		ft.label = sf.Name
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "secret":
			ft.secret = true
		case "required":
			ft.required = true
		}
	}
	return ft
}

func (f *Form[T]) walk(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		tag := parseTag(sf)
		if tag.skip {
			continue
		}
		label := tag.label
		if prefix != "" {
			label = prefix + "." + label
		}
		field := v.Field(i)

		switch {
		case field.Kind() == reflect.Struct:
			if err := f.walk(field, label); err != nil {
				return err
			}
		case field.Kind() == reflect.Pointer && field.Type().Elem().Kind() == reflect.Struct:
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := f.walk(field.Elem(), label); err != nil {
				return err
			}
		case field.Kind() == reflect.Bool:
			def := field.Bool()
			if !def {
				def = sf.Tag.Get(defaultTagName) == "true"
			}
			ans := def
			if err := f.askOne(&survey.Confirm{Message: label, Default: def}, &ans, tag, nil); err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			field.SetBool(ans)
		case fieldset.Settable(field.Type()):
			def := fieldset.Format(field)
			if def == "" {
				def = sf.Tag.Get(defaultTagName)
			}
			var p survey.Prompt = &survey.Input{Message: label, Default: def}
			if tag.secret {
				p = &survey.Password{Message: label}
			}
			validate := parseValidator(field.Type())
			if tag.secret && def != "" {
				// An empty secret keeps def, so it satisfies required.
				validate = fallbackTo(def, validate)
				tag.required = false
			}
			var ans string
			if err := f.askOne(p, &ans, tag, validate); err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			if tag.secret && ans == "" {
				ans = def
			}
			if err := fieldset.Set(field, ans); err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
		default:
			return fmt.Errorf("%w: %s (%s)", ErrUnsupportedField, label, field.Type())
		}
	}
	return nil
}

func (f *Form[T]) askOne(p survey.Prompt, response interface{}, tag fieldTag, validate survey.Validator) error {
	opts := stdioOpts(f.stdio)
	if tag.required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	if validate != nil {
		opts = append(opts, survey.WithValidator(validate))
	}
	err := f.ask(p, response, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// parseValidator rejects answers that cannot be stored in a field of type t.
func parseValidator(t reflect.Type) survey.Validator {
	return func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return nil
		}
		return fieldset.Set(reflect.New(t).Elem(), s)
	}
}

func fallbackTo(def string, v survey.Validator) survey.Validator {
	return func(ans interface{}) error {
		if s, ok := ans.(string); ok && s == "" {
			return v(def)
		}
		return v(ans)
	}
}

func stdioOpts(s streams.IOStreams) []survey.AskOpt {
	if s == nil {
		return nil
	}
	in, okIn := s.In().(terminal.FileReader)
	out, okOut := s.Out().(terminal.FileWriter)
	if !okIn || !okOut {
		return nil
	}
	errOut := s.ErrOut()
	if errOut == nil {
		errOut = out
	}
	return []survey.AskOpt{survey.WithStdio(in, out, errOut)}
}

// Confirm asks message as a yes/no question defaulting to yes. Any prompt
// failure, including an interrupt, counts as no.
func Confirm(s streams.IOStreams, message string) bool {
	return confirm(askerFor(s), s, message)
}

func confirm(ask askFunc, s streams.IOStreams, message string) bool {
	ok := true
	if err := ask(&survey.Confirm{Message: message, Default: true}, &ok, stdioOpts(s)...); err != nil {
		return false
	}
	return ok
}
