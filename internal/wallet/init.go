package wallet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// MnemonicSource resolves the mnemonic for a command: an explicit flag value,
// then the environment, then an interactive prompt
type MnemonicSource struct {
	Flag   string
	Env    string
	Input  io.Reader // prompt input when not a terminal, os.Stdin when nil
	Output io.Writer // prompt output, os.Stderr when nil
}

// Resolve returns the first non-empty mnemonic of Flag, Env or the prompt
func (s MnemonicSource) Resolve() (string, error) {
	if m := strings.TrimSpace(s.Flag); m != "" {
		return m, nil
	}
	if m := strings.TrimSpace(s.Env); m != "" {
		return m, nil
	}

	mnemonic, err := s.prompt("Enter recovery phrase: ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(mnemonic) == "" {
		return "", errors.New("no mnemonic provided")
	}
	return strings.TrimSpace(mnemonic), nil
}

// prompt reads a line, hiding the input when stdin is a terminal
//
//nolint:forbidigo // Mnemonic input requires direct terminal I/O
func (s MnemonicSource) prompt(prompt string) (string, error) {
	out := s.Output
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprint(out, prompt)

	if s.Input == nil {
		fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
		if term.IsTerminal(fd) {
			secret, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			if err != nil {
				return "", errors.Wrap(err, "failed to read mnemonic from terminal")
			}
			return string(secret), nil
		}
		s.Input = os.Stdin
	}

	line, err := bufio.NewReader(s.Input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "failed to read mnemonic")
	}
	return line, nil
}
