//go:build debug

package debug

import "fmt"

// Enabled reports whether assertions are compiled in. Guard assertions that
// need extra work to evaluate with `if debug.Enabled {...}`.
const Enabled = true

// Assert panics with message if b is false.
func Assert(b bool, message string) {
	if !b {
		panic(message)
	}
}

// Assertf is like Assert but formats the panic message.
func Assertf(b bool, format string, args ...any) {
	if !b {
		panic(fmt.Sprintf(format, args...))
	}
}

// AssertErrNil panics if err is not nil.
func AssertErrNil(err error) {
	if err != nil {
		panic(err)
	}
}
