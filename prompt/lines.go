package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/ygrebnov/loadconf/streams"
)

// ErrNoInput is returned when a non-terminal input runs out of answers.
var ErrNoInput = errors.New("no more input")

// askerFor picks survey for terminals and a line reader for anything else, such
// as pipes or streams.Buffers scripts.
func askerFor(s streams.IOStreams) askFunc {
	if s == nil || s.In() == nil || stdioOpts(s) != nil {
		return survey.AskOne
	}
	out := s.Out()
	if out == nil {
		out = io.Discard
	}
	return lineAsker{in: s.In(), out: out}.ask
}

// lineAsker answers survey prompts from newline-terminated input, one line per
// question. An empty line takes the suggested answer. An answer rejected by a
// validator is reported on out and the question is asked again.
type lineAsker struct {
	in  io.Reader
	out io.Writer
}

func (a lineAsker) ask(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
	var o survey.AskOptions
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return err
		}
	}

	var msg, def string
	switch q := p.(type) {
	case *survey.Input:
		msg, def = q.Message, q.Default
	case *survey.Password:
		msg = q.Message
	case *survey.Confirm:
		msg = q.Message
		def = "n"
		if q.Default {
			def = "y"
		}
	default:
		return fmt.Errorf("unsupported prompt %T", p)
	}

	for {
		if def != "" {
			fmt.Fprintf(a.out, "? %s (%s) ", msg, def)
		} else {
			fmt.Fprintf(a.out, "? %s ", msg)
		}
		line, err := a.readLine()
		if err != nil {
			return err
		}
		if line == "" {
			line = def
		}

		var ans interface{} = line
		if _, isConfirm := p.(*survey.Confirm); isConfirm {
			yes, ok := parseYesNo(line)
			if !ok {
				fmt.Fprintf(a.out, "X %q is not a yes/no answer\n", line)
				continue
			}
			ans = yes
		}
		if verr := validate(o.Validators, ans); verr != nil {
			fmt.Fprintf(a.out, "X %v\n", verr)
			continue
		}

		switch r := response.(type) {
		case *string:
			*r = line
		case *bool:
			*r = ans.(bool)
		default:
			return fmt.Errorf("unsupported response %T", response)
		}
		return nil
	}
}

// readLine reads byte by byte so that several askers over the same reader do
// not steal each other's lines.
func (a lineAsker) readLine() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := a.in.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				return strings.TrimSuffix(sb.String(), "\r"), nil
			}
			sb.WriteByte(buf[0])
		}
		if errors.Is(err, io.EOF) {
			if sb.Len() > 0 {
				return strings.TrimSuffix(sb.String(), "\r"), nil
			}
			return "", ErrNoInput
		}
		if err != nil {
			return "", err
		}
	}
}

func validate(validators []survey.Validator, ans interface{}) error {
	for _, v := range validators {
		if err := v(ans); err != nil {
			return err
		}
	}
	return nil
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true":
		return true, true
	case "n", "no", "false":
		return false, true
	}
	return false, false
}
