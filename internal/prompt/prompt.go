// Package prompt provides the confirmation and error-reporting backends the
// dispatcher asks the user through.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/chess10kp/buttonlauncher/internal/dispatch"
)

// Prompt is a dispatch.UserPrompt that may hold resources.
type Prompt interface {
	dispatch.UserPrompt
	Close() error
}

// New returns the backend named in the settings file.
func New(backend string) (Prompt, error) {
	switch backend {
	case "", "terminal":
		return NewTerminal(os.Stdin, os.Stderr), nil
	case "native":
		return newNative()
	case "auto-yes":
		return AutoYes{}, nil
	case "gtk":
		return newGTK()
	}
	return nil, fmt.Errorf("unknown prompt backend '%s'", backend)
}

// Terminal asks on a text stream. Only "y" or "yes" count as approval.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Confirm(question string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	answer, err := t.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *Terminal) NotifyError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Error: %s\n", message)
}

func (t *Terminal) Close() error { return nil }

// AutoYes approves every question. Used for unattended daemons.
type AutoYes struct{}

func (AutoYes) Confirm(question string) bool {
	log.Printf("[PROMPT] auto-confirmed: %s", question)
	return true
}

func (AutoYes) NotifyError(message string) {
	log.Printf("[PROMPT] error: %s", message)
}

func (AutoYes) Close() error { return nil }
