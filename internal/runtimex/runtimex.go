// Package runtimex contains runtime extensions.
package runtimex

import "fmt"

// PanicOnError calls panic() if err is not nil. The type passed
// to panic is an error wrapping the original error.
func PanicOnError(err error, message string) {
	if err != nil {
		panic(fmt.Errorf("%s: %w", message, err))
	}
}

// Assert calls panic with the given message if the assertion is false.
func Assert(assertion bool, message string) {
	if !assertion {
		panic(message)
	}
}
