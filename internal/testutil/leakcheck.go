// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks should be deferred at the start of tests that spawn goroutines.
// It fails the test if any goroutine other than those ignored by opts is
// still running.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}

// IgnoreExisting snapshots the goroutines running now so that only ones
// started afterwards are reported. Take it before starting the code under
// test.
func IgnoreExisting() goleak.Option {
	return goleak.IgnoreCurrent()
}
