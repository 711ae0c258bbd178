// Package streams provides the IOStreams used by loadconf for its recovery
// notices and interactive prompts: terminal stdio, plain writers, discarding
// sinks, in-memory buffers with scripted input, and a log/slog adapter.
package streams

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// IOStreams is the contract consumed by loadconf.Loader and the prompt package.
// In feeds the prompts; Out receives progress notices; ErrOut receives
// non-fatal warnings such as a missing or corrupted config file.
type IOStreams interface {
	In() io.Reader
	Out() io.Writer
	ErrOut() io.Writer
}

// BasicIOStreams forwards to the supplied reader and writers.
type BasicIOStreams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (s BasicIOStreams) In() io.Reader     { return s.in }
func (s BasicIOStreams) Out() io.Writer    { return s.out }
func (s BasicIOStreams) ErrOut() io.Writer { return s.errOut }

// DefaultIOStreams returns streams backed by os.Stdin, os.Stdout and os.Stderr.
// These are the only streams the prompt package can drive as a real terminal.
func DefaultIOStreams() BasicIOStreams {
	return BasicIOStreams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

// Writers returns streams that write Out to out and ErrOut to err, reading from
// os.Stdin.
func Writers(out, err io.Writer) BasicIOStreams {
	return BasicIOStreams{in: os.Stdin, out: out, errOut: err}
}

// Discard returns streams that drop all output (useful for "--silent").
func Discard() BasicIOStreams {
	return Writers(io.Discard, io.Discard)
}

// BuffersStreams captures output into bytes.Buffers and reads input from a
// fixed script. It is not safe for concurrent writers.
type BuffersStreams struct {
	InR    io.Reader
	OutBuf *bytes.Buffer
	ErrBuf *bytes.Buffer
}

// Buffers creates BuffersStreams with fresh buffers. The optional input lines
// are joined with newlines and served from In.
func Buffers(input ...string) *BuffersStreams {
	var in string
	if len(input) > 0 {
		in = strings.Join(input, "\n") + "\n"
	}
	return &BuffersStreams{
		InR:    strings.NewReader(in),
		OutBuf: &bytes.Buffer{},
		ErrBuf: &bytes.Buffer{},
	}
}

func (b *BuffersStreams) In() io.Reader     { return b.InR }
func (b *BuffersStreams) Out() io.Writer    { return b.OutBuf }
func (b *BuffersStreams) ErrOut() io.Writer { return b.ErrBuf }

// Strings returns the current contents of the Out and ErrOut buffers.
func (b *BuffersStreams) Strings() (out, err string) {
	return b.OutBuf.String(), b.ErrBuf.String()
}

// Reset clears both Out and ErrOut buffers.
func (b *BuffersStreams) Reset() {
	b.OutBuf.Reset()
	b.ErrBuf.Reset()
}

// slogWriter adapts slog.Logger to io.Writer, one record per Write.
type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	n := len(p)
	msg := strings.TrimSuffix(string(p), "\n")
	msg = strings.TrimPrefix(msg, "config: ")
	w.l.Log(context.Background(), w.level, msg)
	return n, nil
}

// Slog returns streams that log Out writes at level info and ErrOut writes at
// level warn. The "config: " prefix of loadconf notices is stripped. In is
// os.Stdin.
func Slog(l *slog.Logger, info, warn slog.Level) BasicIOStreams {
	return BasicIOStreams{
		in:     os.Stdin,
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: warn},
	}
}
