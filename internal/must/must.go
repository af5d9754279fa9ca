// Package must contains functions that panic on error.
package must

import (
	"fmt"
	"io"

	"github.com/bitrixtools/coursedump/internal/runtimex"
)

// Fprintf is like [fmt.Fprintf] but calls
// [runtimex.PanicOnError] on failure.
func Fprintf(w io.Writer, format string, v ...any) {
	_, err := fmt.Fprintf(w, format, v...)
	runtimex.PanicOnError(err, "fmt.Fprintf failed")
}
