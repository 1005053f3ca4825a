// Package terminal provides terminal detection and secret prompting.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

// IsInteractive reports whether stdin is an interactive terminal.
func IsInteractive() bool {
	return isTerminal(stdinFd())
}

// ReadSecret writes prompt to out and reads a line from the terminal without echo.
func ReadSecret(prompt string, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return "", err
	}
	secret, err := readPassword(stdinFd())
	_, _ = fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
