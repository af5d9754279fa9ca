// Package shellxtesting contains mocks for shellx.
package shellxtesting

import (
	"github.com/bitrixtools/coursedump/internal/runtimex"
	"github.com/bitrixtools/coursedump/internal/shellx"
	"golang.org/x/sys/execabs"
)

// Library implements shellx.Dependencies.
type Library struct {
	MockCmdOutput func(c *execabs.Cmd) ([]byte, error)

	MockCmdRun func(c *execabs.Cmd) error

	MockLookPath func(file string) (string, error)
}

var _ shellx.Dependencies = &Library{}

// CmdOutput implements shellx.Dependencies.
func (lib *Library) CmdOutput(c *execabs.Cmd) ([]byte, error) {
	return lib.MockCmdOutput(c)
}

// CmdRun implements shellx.Dependencies.
func (lib *Library) CmdRun(c *execabs.Cmd) error {
	return lib.MockCmdRun(c)
}

// LookPath implements shellx.Dependencies.
func (lib *Library) LookPath(file string) (string, error) {
	return lib.MockLookPath(file)
}

// MustArgv returns the [execabs.Cmd]'s argv or panics.
func MustArgv(c *execabs.Cmd) []string {
	runtimex.Assert(len(c.Args) >= 1, "too few arguments")
	out := []string{c.Path}
	out = append(out, c.Args[1:]...)
	return out
}

// WithCustomLibrary executes the given function with a custom shellx.Library.
func WithCustomLibrary(library shellx.Dependencies, fn func()) {
	prev := shellx.Library
	defer func() {
		shellx.Library = prev
	}()
	shellx.Library = library
	fn()
}
