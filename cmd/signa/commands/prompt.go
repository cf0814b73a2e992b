package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers line by line. tty is the terminal descriptor
// behind r, or -1 when input is not a terminal.
type prompter struct {
	r   *bufio.Reader
	w   io.Writer
	tty int
}

func (c *cli) prompter() *prompter {
	return &prompter{r: c.in, w: c.out, tty: c.tty}
}

// secret asks label without echoing the answer on a terminal. The answer is
// returned as typed apart from the line ending.
func (p *prompter) secret(label string) (string, error) {
	fmt.Fprintf(p.w, "%s: ", label)
	if p.tty >= 0 {
		b, err := term.ReadPassword(p.tty)
		fmt.Fprintln(p.w)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	s, err := p.r.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && s == "":
		fmt.Fprintln(p.w)
		return "", errInputClosed
	case err != nil && !errors.Is(err, io.EOF):
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// line asks label and returns the trimmed answer, or def when it is blank.
func (p *prompter) line(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.w, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.w, "%s: ", label)
	}
	s, err := p.r.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && s == "":
		fmt.Fprintln(p.w)
		return "", errInputClosed
	case err != nil && !errors.Is(err, io.EOF):
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return s, nil
}

// confirm asks a yes/no question; anything but y or yes is no.
func (p *prompter) confirm(question string) (bool, error) {
	ans, err := p.line(question+" [y/N]", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// choose asks for one of options, matched by full word or first letter.
func (p *prompter) choose(question string, options ...string) (string, error) {
	for {
		ans, err := p.line(fmt.Sprintf("%s (%s)", question, strings.Join(options, "/")), "")
		if err != nil {
			return "", err
		}
		ans = strings.ToLower(ans)
		for _, o := range options {
			if ans == o || (len(ans) == 1 && o[0] == ans[0]) {
				return o, nil
			}
		}
		fmt.Fprintf(p.w, "Please answer %s.\n", strings.Join(options, ", "))
	}
}
