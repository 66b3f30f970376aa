package menu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads line-oriented answers from the terminal. Every read blocks
// until the user presses Enter; io.EOF propagates so scripted input ends the
// session cleanly.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Line prints prompt and returns the next input line, trimmed.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// YesNo re-prompts until the answer is y or n.
func (p *Prompter) YesNo(prompt string) (bool, error) {
	for {
		answer, err := p.Line(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		fmt.Fprintln(p.out, errColor.Sprint("Please enter 'y' or 'n'."))
	}
}

// Pause blocks until the user presses Enter, so output is read before the
// menu redraws.
func (p *Prompter) Pause() {
	fmt.Fprint(p.out, "\nPress Enter to continue...")
	_, _ = p.in.ReadString('\n')
	fmt.Fprintln(p.out)
}
