package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/ajitpratap0/recycler/pkg/errors"
)

// startCPUProfile starts CPU profiling into path. The returned stop is a
// no-op when path is empty.
func startCPUProfile(path string) (stop func(), err error) {
	if path == "" {
		return func() {}, nil
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create CPU profile")
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to start CPU profile")
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

// writeHeapProfile writes a heap profile to path after a GC. Empty path
// writes nothing.
func writeHeapProfile(path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create memory profile")
	}
	defer f.Close()

	runtime.GC() // Get up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to write memory profile")
	}
	return nil
}
