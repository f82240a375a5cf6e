//go:build !gtk

package prompt

import "errors"

func newGTK() (Prompt, error) {
	return nil, errors.New("gtk prompt backend requires building with -tags gtk")
}
