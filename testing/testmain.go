// Package testing provides utilities for writing fbplay tests.
package testing

import (
	"cmp"
	"log/slog"
	"os"
	"testing"

	"github.com/fbplay/fbplay/config"
)

// TestMain should be used as TestMain for packages whose code logs.  Log
// output is limited to errors unless FBPLAY_TEST_LOG names another level.
func TestMain(m *testing.M) {
	level := cmp.Or(os.Getenv("FBPLAY_TEST_LOG"), "error")
	log, err := config.NewLogger(level, "text", os.Stderr)
	if err != nil {
		panic(err)
	}
	slog.SetDefault(log)

	os.Exit(m.Run())
}
