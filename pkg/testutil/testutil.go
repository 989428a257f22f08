// Package testutil provides testing utilities for recycler
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// ObservedLogger returns a logger that records every entry at debug level
// and above, for tests that assert on pool log output.
func ObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// AssertEventually asserts that a condition becomes true within the specified timeout.
// It checks the condition every 10ms until it succeeds or the timeout expires.
func AssertEventually(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v: %s", timeout, msg)
}
