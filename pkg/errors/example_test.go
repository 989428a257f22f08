// Package errors provides examples of structured error handling in recycler.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/ajitpratap0/recycler/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeContract, "instance returned twice").
		WithDetail("pool", "buffers").
		WithDetail("type", "*bytes.Buffer")

	fmt.Println(err.Error())

	// Output:
	// contract: instance returned twice
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeFile, "failed to read pool config").
		WithDetail("file", "pools.yaml")

	if errors.IsType(err, errors.ErrorTypeFile) {
		fmt.Println("This is a file error")
	}

	// The standard library still sees the cause
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Original error was unexpected EOF")
	}

	// Output:
	// This is a file error
	// Original error was unexpected EOF
}

// ExampleIsContractViolation shows how callers branch on misuse of a pool.
func ExampleIsContractViolation() {
	misuse := errors.New(errors.ErrorTypeContract, "nil instance returned")
	missing := errors.New(errors.ErrorTypeNotFound, "pool not registered")

	fmt.Println(errors.IsContractViolation(misuse))
	fmt.Println(errors.IsContractViolation(missing))

	// Output:
	// true
	// false
}

// Example_errorChain shows how wrapped contexts render.
func Example_errorChain() {
	err := errors.Wrap(lookupPool(), errors.ErrorTypeConfig, "building registry failed").
		WithDetail("config", "pools.yaml")

	fmt.Println("Full error chain:", err)

	// Output:
	// Full error chain: config: building registry failed: not_found: pool kind "widget" is not registered
}

func lookupPool() error {
	return errors.Newf(errors.ErrorTypeNotFound, "pool kind %q is not registered", "widget")
}

// ExampleIsType demonstrates that IsType inspects the outermost structured error.
func ExampleIsType() {
	inner := errors.New(errors.ErrorTypeValidation, "capacity must be positive")
	wrapped := errors.Wrap(inner, errors.ErrorTypeConfig, "invalid pool")

	fmt.Printf("Is config error: %v\n", errors.IsType(wrapped, errors.ErrorTypeConfig))
	fmt.Printf("Is validation error: %v\n", errors.IsType(wrapped, errors.ErrorTypeValidation))

	// Output:
	// Is config error: true
	// Is validation error: false
}
