package loadconf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	modellib "github.com/ygrebnov/model"

	"github.com/ygrebnov/loadconf/prompt"
	"github.com/ygrebnov/loadconf/streams"
)

// Exported error categories returned by this package. These are used with wrapping
// so callers can detect error classes using errors.Is/As.
//   - ErrRead: the config file could not be opened or read (wraps the os error).
//   - ErrParse: the file content is not valid for the requested format.
//   - ErrPrompt: the interactive prompt failed or was aborted.
//   - ErrPersist: a recovered value could not be saved. It is always joined with
//     one of ErrNoEncoder, ErrFormat, ErrEnsureConfigDir or ErrWrite.
//   - ErrNoEncoder: the format can be read but not written (env files).
//   - ErrFormat: failure to marshal a config to bytes (e.g., unsupported type).
//   - ErrEnsureConfigDir: failure to create parent directories for a config file.
//   - ErrWrite: failure to write the config file to disk.
var (
	ErrRead            = errors.New("read config file")
	ErrParse           = errors.New("parse config file")
	ErrPrompt          = errors.New("prompt config values")
	ErrPersist         = errors.New("persist config")
	ErrNoEncoder       = errors.New("no encoder for format")
	ErrFormat          = errors.New("format config")
	ErrEnsureConfigDir = errors.New("ensure config dir")
	ErrWrite           = errors.New("write to config file")
)

// Prompter interactively constructs a populated *T.
type Prompter[T any] interface {
	Prompt() (*T, error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc[T any] func() (*T, error)

func (f PromptFunc[T]) Prompt() (*T, error) { return f() }

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// ModelInit is a constructor hook that binds a model.Model[T] to a freshly built
// default *T so that `default` struct tags can be applied to it.
type ModelInit[T any] func(*T) (*modellib.Model[T], error)

// Loader reads configuration files of type T and, on request, recovers missing
// or broken ones through a Prompter.
//
// A Loader holds no per-call state; every method resolves the path, picks the
// codec and touches the filesystem anew. Concurrent calls that write the same
// path race and the last rename wins.
type Loader[T any] struct {
	defaultFn func() *T
	modelInit ModelInit[T]
	streams   streams.IOStreams
	prompter  Prompter[T]
	confirmer Confirmer
}

// Option configures a Loader at construction time. Options are composable and
// can be passed to New in any order.
type Option[T any] func(*Loader[T])

// New constructs a Loader[T] and applies all given options.
//
// Without WithStreams, notices go to os.Stdout and os.Stderr. Without
// WithPrompter, recovery prompts on the terminal for every exported field of T,
// starting from the default value. Without WithConfirmer, the save question is
// asked on the terminal too.
func New[T any](opts ...Option[T]) *Loader[T] {
	l := &Loader[T]{}
	for _, opt := range opts {
		opt(l)
	}
	if l.streams == nil {
		l.streams = streams.DefaultIOStreams()
	}
	if l.defaultFn == nil {
		l.defaultFn = func() *T { var t T; return &t }
	}
	if l.prompter == nil {
		form := prompt.New[T](l.streams)
		l.prompter = PromptFunc[T](func() (*T, error) {
			v := l.defaultValue()
			if err := form.Fill(v); err != nil {
				return nil, err
			}
			return v, nil
		})
	}
	if l.confirmer == nil {
		l.confirmer = ConfirmFunc(func(message string) bool {
			return prompt.Confirm(l.streams, message)
		})
	}
	return l
}

// WithDefaultFn registers a factory that returns a new *T. It is used by
// LoadOrDefault and seeds the built-in prompt. Panics if fn is nil.
func WithDefaultFn[T any](fn func() *T) Option[T] {
	return func(l *Loader[T]) {
		if fn == nil {
			panic("loadconf: WithDefaultFn: fn cannot be nil")
		}
		l.defaultFn = fn
	}
}

// WithModel enables integration with github.com/ygrebnov/model. Every default
// value is passed to init and then filled with SetDefaults(), so `default` tags
// apply to LoadOrDefault results and to the built-in prompt's suggestions.
// Panics if init is nil.
func WithModel[T any](init ModelInit[T]) Option[T] {
	return func(l *Loader[T]) {
		if init == nil {
			panic("loadconf: WithModel: init cannot be nil")
		}
		l.modelInit = init
	}
}

// WithStreams wires user-facing message streams for the recovery notices and
// the built-in prompt. Pass adapters from the companion streams package to
// route output to buffers, logs, or io.Discard. A nil s keeps the process stdio.
func WithStreams[T any](s streams.IOStreams) Option[T] {
	return func(l *Loader[T]) {
		l.streams = s
	}
}

// WithPrompter replaces the built-in terminal prompt used by LoadOrPrompt.
// Panics if p is nil.
func WithPrompter[T any](p Prompter[T]) Option[T] {
	return func(l *Loader[T]) {
		if p == nil {
			panic("loadconf: WithPrompter: p cannot be nil")
		}
		l.prompter = p
	}
}

// WithConfirmer replaces the built-in save confirmation used by LoadOrPrompt.
// Panics if c is nil.
func WithConfirmer[T any](c Confirmer) Option[T] {
	return func(l *Loader[T]) {
		if c == nil {
			panic("loadconf: WithConfirmer: c cannot be nil")
		}
		l.confirmer = c
	}
}

// Path returns directory/filename.<canonical extension of f>.
func Path(directory, filename string, f Format) string {
	return filepath.Join(directory, filename+"."+f.Extension())
}

// Load reads directory/filename.<ext> and decodes it as the format named by
// extension. It makes a single attempt and never recovers:
//   - an unknown extension yields an *ExtensionError before any file I/O;
//   - open/read failures wrap ErrRead and the underlying os error;
//   - decode failures wrap ErrParse and the parser error.
func (l *Loader[T]) Load(directory, filename, extension string) (*T, error) {
	f, err := ParseFormat(extension)
	if err != nil {
		return nil, err
	}
	return l.load(Path(directory, filename, f), f)
}

func (l *Loader[T]) load(path string, f Format) (*T, error) {
	cfg := new(T)
	if err := loadFromFile(path, f, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the default value on any failure.
// The error is dropped and nothing is written.
func (l *Loader[T]) LoadOrDefault(directory, filename, extension string) *T {
	cfg, err := l.Load(directory, filename, extension)
	if err != nil {
		return l.defaultValue()
	}
	return cfg
}

// LoadOrPrompt loads directory/filename.<ext>. When the file is absent or cannot
// be loaded, the user is prompted for the values and asked whether to save them
// in the same format.
//
// An invalid extension or a failed prompt returns a nil value and the error. If
// the user declines to save, the prompted value is returned with a nil error.
// If saving fails, the prompted value is still returned together with an error
// matching ErrPersist: the value is usable but was not written.
func (l *Loader[T]) LoadOrPrompt(directory, filename, extension string) (*T, error) {
	f, err := ParseFormat(extension)
	if err != nil {
		return nil, err
	}
	path := Path(directory, filename, f)
	if _, statErr := os.Stat(path); statErr == nil {
		if cfg, err := l.load(path, f); err == nil {
			return cfg, nil
		}
	}
	return l.recoverByPrompt(path, f)
}

func (l *Loader[T]) recoverByPrompt(path string, f Format) (*T, error) {
	fmt.Fprintf(l.errOut(), "config: data at %s is missing or corrupted\n", path)
	fmt.Fprintf(l.out(), "config: creating form for %s\n", path)

	cfg, err := l.prompter.Prompt()
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrPrompt, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w for %s: prompter returned no value", ErrPrompt, path)
	}

	if !CanEncode(f) {
		fmt.Fprintf(l.errOut(), "config: %s files cannot be written; %s was not saved\n", f, path)
		return cfg, errors.Join(ErrPersist, ErrNoEncoder)
	}
	if !l.confirmer.Confirm(fmt.Sprintf("Save the result to %s?", path)) {
		return cfg, nil
	}
	if err := EnsurePath(path); err != nil {
		return cfg, errors.Join(ErrPersist, ErrEnsureConfigDir, err)
	}
	if err := writeToFile(path, f, cfg); err != nil {
		return cfg, errors.Join(ErrPersist, err)
	}
	fmt.Fprintf(l.out(), "config: saved to %s\n", path)
	return cfg, nil
}

func (l *Loader[T]) defaultValue() *T {
	cfg := l.defaultFn()
	if cfg == nil {
		cfg = new(T)
	}
	if l.modelInit == nil {
		return cfg
	}
	// Defaults are best effort; a model that fails to bind leaves cfg as built.
	mdl, err := l.modelInit(cfg)
	if err == nil && mdl != nil {
		err = mdl.SetDefaults()
	}
	if err != nil {
		fmt.Fprintf(l.errOut(), "config: warning: cannot apply defaults: %v\n", err)
	}
	return cfg
}

func (l *Loader[T]) out() io.Writer {
	if l.streams == nil || l.streams.Out() == nil {
		return io.Discard
	}
	return l.streams.Out()
}

func (l *Loader[T]) errOut() io.Writer {
	if l.streams == nil || l.streams.ErrOut() == nil {
		return io.Discard
	}
	return l.streams.ErrOut()
}

// Load reads a config file with a default Loader. See Loader.Load.
func Load[T any](directory, filename, extension string) (*T, error) {
	return New[T]().Load(directory, filename, extension)
}

// LoadOrDefault reads a config file with a default Loader, returning a zero T on
// any failure. See Loader.LoadOrDefault.
func LoadOrDefault[T any](directory, filename, extension string) *T {
	return New[T]().LoadOrDefault(directory, filename, extension)
}

// LoadOrPrompt reads a config file with a default Loader, prompting on the
// terminal when it is missing or broken. See Loader.LoadOrPrompt.
func LoadOrPrompt[T any](directory, filename, extension string) (*T, error) {
	return New[T]().LoadOrPrompt(directory, filename, extension)
}
