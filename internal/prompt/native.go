//go:build gtk || windows || darwin

package prompt

import (
	"github.com/sqweek/dialog"
)

// Native uses the platform's message boxes.
type Native struct{}

func newNative() (Prompt, error) {
	return Native{}, nil
}

func (Native) Confirm(question string) bool {
	return dialog.Message("%s", question).Title("Confirmation").YesNo()
}

func (Native) NotifyError(message string) {
	dialog.Message("%s", message).Title("Error").Error()
}

func (Native) Close() error { return nil }
