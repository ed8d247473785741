package deactivation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PromptConfirmer reads yes/no answers line by line. A blank line or end
// of input takes the default, unless an unrecognised answer was already
// given, in which case end of input means no.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "no"
	if defaultYes {
		hint = "yes"
	}

	rejected := false
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprintf(p.out, "%s (yes/no) [%s]:\n> ", question, hint)

		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "":
			if err != nil {
				fmt.Fprintln(p.out)
				if rejected {
					return false, nil
				}
			}
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return false, nil
		}
		rejected = true
		fmt.Fprintln(p.out, "Please answer yes or no.")
	}
}
