// Package loadconf loads configuration files whose format is chosen by an
// extension token, and recovers missing or broken files interactively.
//
// It supports:
//  1. Classifying extension tokens into a closed set of formats (env, JSON,
//     TOML, YAML) with no silent fallback; see ParseFormat.
//  2. Loading directory/filename.<canonical extension> into a caller type T with
//     a single, non-recovering attempt; see Load.
//  3. Falling back to a default value on any failure; see LoadOrDefault.
//  4. Prompting for the values when the file is absent or broken, then saving
//     them in the requested format after confirmation; see LoadOrPrompt.
//  5. Optional integration with github.com/ygrebnov/model for default values
//     (via `default` tags).
//
// Typical usage:
//
//	l := loadconf.New[Cfg](
//	    loadconf.WithStreams[Cfg](streams.DefaultIOStreams()),
//	    loadconf.WithDefaultFn(func() *Cfg { return &Cfg{Port: 8080} }),
//	)
//	cfg, err := l.LoadOrPrompt("/etc/myapp", "app", "yaml")
//	if errors.Is(err, loadconf.ErrPersist) {
//	    log.Printf("using unsaved config: %v", err)
//	} else if err != nil {
//	    log.Fatal(err)
//	}
//	_ = cfg
package loadconf
