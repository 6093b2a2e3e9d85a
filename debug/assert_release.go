//go:build !debug

// Package debug provides assertions that are checked when built with the
// debug tag and compile to nothing otherwise.
//
// The playback loop must not pay for checks of invariants that were already
// established while building the band timelines, so those checks live here.
package debug

// Enabled reports whether assertions are compiled in. Guard assertions that
// need extra work to evaluate with `if debug.Enabled {...}`.
const Enabled = false

// Assert panics with message if b is false.
func Assert(b bool, message string) {}

// Assertf is like Assert but formats the panic message.
func Assertf(b bool, format string, args ...any) {}

// AssertErrNil panics if err is not nil.
func AssertErrNil(err error) {}
