package streams

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestDefaultIOStreams(t *testing.T) {
	s := DefaultIOStreams()

	if s.In() != os.Stdin {
		t.Fatalf("DefaultIOStreams.In() should be os.Stdin")
	}
	if s.Out() != os.Stdout || s.ErrOut() != os.Stderr {
		t.Fatalf("DefaultIOStreams Out/ErrOut must be os.Stdout/os.Stderr")
	}
}

func TestWriters(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	s := Writers(&outBuf, &errBuf)

	if _, err := s.Out().Write([]byte("hello out\n")); err != nil {
		t.Fatalf("Out() write failed: %v", err)
	}
	if _, err := s.ErrOut().Write([]byte("hello err\n")); err != nil {
		t.Fatalf("ErrOut() write failed: %v", err)
	}

	if got := outBuf.String(); got != "hello out\n" {
		t.Fatalf("Out buffer = %q, want %q", got, "hello out\n")
	}
	if got := errBuf.String(); got != "hello err\n" {
		t.Fatalf("Err buffer = %q, want %q", got, "hello err\n")
	}
}

func TestDiscard(t *testing.T) {
	s := Discard()

	for _, w := range []io.Writer{s.Out(), s.ErrOut()} {
		n, err := w.Write([]byte("dropped\n"))
		if err != nil || n != len("dropped\n") {
			t.Fatalf("discard write failed: n=%d err=%v", n, err)
		}
	}
}

func TestBuffersStreams(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{name: "no input", want: ""},
		{name: "single line", input: []string{"yes"}, want: "yes\n"},
		{name: "several lines", input: []string{"alice", "8080"}, want: "alice\n8080\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := Buffers(tt.input...)

			in, err := io.ReadAll(bs.In())
			if err != nil {
				t.Fatalf("read In(): %v", err)
			}
			if string(in) != tt.want {
				t.Fatalf("In() = %q, want %q", in, tt.want)
			}

			if _, err := bs.Out().Write([]byte("info 1\n")); err != nil {
				t.Fatalf("write to Out: %v", err)
			}
			if _, err := bs.ErrOut().Write([]byte("err 1\n")); err != nil {
				t.Fatalf("write to ErrOut: %v", err)
			}
			out, errS := bs.Strings()
			if out != "info 1\n" || errS != "err 1\n" {
				t.Fatalf("Strings() = %q / %q, want %q / %q", out, errS, "info 1\n", "err 1\n")
			}

			bs.Reset()
			out, errS = bs.Strings()
			if out != "" || errS != "" {
				t.Fatalf("after Reset, got %q / %q, want empty / empty", out, errS)
			}
		})
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer

	th := slog.NewTextHandler(&buf, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		// Drop time to make output deterministic
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}})
	s := Slog(slog.New(th), slog.LevelInfo, slog.LevelWarn)

	if _, err := s.Out().Write([]byte("config: saved to app.yml\n")); err != nil {
		t.Fatalf("write to Out(): %v", err)
	}
	n, err := s.ErrOut().Write([]byte("config: data at app.yml is missing or corrupted\n"))
	if err != nil {
		t.Fatalf("write to ErrOut(): %v", err)
	}
	if n != len("config: data at app.yml is missing or corrupted\n") {
		t.Fatalf("Write returned n=%d, want full length", n)
	}

	got := buf.String()
	if !strings.Contains(got, "level=INFO") || !strings.Contains(got, `msg="saved to app.yml"`) {
		t.Fatalf("missing info log in slog output: %q", got)
	}
	if !strings.Contains(got, "level=WARN") || !strings.Contains(got, `msg="data at app.yml is missing or corrupted"`) {
		t.Fatalf("missing warn log in slog output: %q", got)
	}
	if strings.Contains(got, "config:") {
		t.Fatalf("prefix should be stripped: %q", got)
	}
}
