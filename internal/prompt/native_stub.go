//go:build !gtk && !windows && !darwin

package prompt

import "errors"

func newNative() (Prompt, error) {
	return nil, errors.New("native prompt backend on linux requires building with -tags gtk")
}
