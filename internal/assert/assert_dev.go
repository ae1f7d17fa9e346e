//go:build !release

package assert

import "fmt"

// Enabled reports whether assertions are compiled in.
const Enabled = true

// That panics with the formatted message when cond is false. Compiled out of release builds.
func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
