// Package console implements the operator-facing confirmation gate over
// line-oriented standard streams.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rios0rios0/safesync/domain"
)

// Confirmer asks yes/no questions on the given streams. It blocks until
// the operator answers; the default on a bare newline is No.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

var _ domain.Confirmer = (*Confirmer)(nil)

// New creates a confirmer reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewReader(in), out: out}
}

// Confirm presents the prompt and returns the operator's answer. Only an
// explicit "y" or "yes" (case-insensitive) counts as Yes.
func (c *Confirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
