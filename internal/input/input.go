// Package input reads a user-supplied mnemonic phrase from a file, piped
// standard input or an interactive prompt.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoPhrase means no phrase could be obtained. Callers fall back to
// generating a fresh mnemonic.
var ErrNoPhrase = errors.New("no phrase supplied")

// maxPhraseLen bounds how much is read from any source. A 24-word phrase is
// well under 300 bytes.
const maxPhraseLen = 4096

// Source yields the raw text of a mnemonic phrase.
type Source interface {
	Phrase() (string, error)
}

// None never supplies a phrase.
type None struct{}

func (None) Phrase() (string, error) {
	return "", ErrNoPhrase
}

// File reads the phrase from a file.
type File struct {
	Path string
}

func (f File) Phrase() (string, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoPhrase, err)
	}
	defer fh.Close()

	return readPhrase(fh, f.Path)
}

// Reader reads the phrase from a stream such as piped standard input.
type Reader struct {
	R io.Reader
}

func (r Reader) Phrase() (string, error) {
	return readPhrase(r.R, "stdin")
}

// Prompt asks for the phrase on a terminal without echoing it.
type Prompt struct {
	FD  int
	Out io.Writer

	readPassword func(fd int) ([]byte, error)
}

// NewPrompt returns a Prompt on the process's standard input, writing the
// question to stderr so stdout stays clean for the report.
func NewPrompt() *Prompt {
	return &Prompt{
		FD:           int(os.Stdin.Fd()),
		Out:          os.Stderr,
		readPassword: term.ReadPassword,
	}
}

func (p *Prompt) Phrase() (string, error) {
	fmt.Fprint(p.Out, "Enter mnemonic: ")
	raw, err := p.readPassword(p.FD)
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", fmt.Errorf("%w: read prompt: %v", ErrNoPhrase, err)
	}

	phrase := strings.TrimSpace(string(raw))
	clear(raw)
	if phrase == "" {
		return "", fmt.Errorf("%w: empty prompt", ErrNoPhrase)
	}
	return phrase, nil
}

// Choose picks the phrase source for a run: an explicit file wins, then the
// prompt, then stdin when it is not a terminal. Otherwise nothing is read.
func Choose(path string, prompt bool, stdin *os.File) Source {
	switch {
	case path != "":
		return File{Path: path}
	case prompt:
		p := NewPrompt()
		if stdin != nil {
			p.FD = int(stdin.Fd())
		}
		return p
	case stdin != nil && !term.IsTerminal(int(stdin.Fd())):
		return Reader{R: stdin}
	default:
		return None{}
	}
}

func readPhrase(r io.Reader, name string) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxPhraseLen))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrNoPhrase, name, err)
	}

	phrase := strings.TrimSpace(string(raw))
	if phrase == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoPhrase, name)
	}
	return phrase, nil
}
