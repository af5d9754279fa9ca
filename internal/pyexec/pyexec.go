// Package pyexec locates the Python 3 interpreter that runs the
// scraper scripts.
//
// We search the PATH for "python3" and fall back to "python" when the
// latter reports a 3.x version. The COURSEDUMP_PYTHON environment
// variable overrides the search with a full command line, e.g.
//
//	export COURSEDUMP_PYTHON="python3.12 -X utf8"
package pyexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bitrixtools/coursedump/internal/model"
	"github.com/bitrixtools/coursedump/internal/shellx"
)

// EnvOverride is the environment variable overriding interpreter discovery.
const EnvOverride = "COURSEDUMP_PYTHON"

// ErrNotFound means we could not find a Python 3 interpreter.
var ErrNotFound = errors.New("pyexec: no Python 3 interpreter on the PATH")

// Interpreter is a resolved Python 3 interpreter.
type Interpreter struct {
	// Path is the absolute path of the interpreter.
	Path string

	// Args contains extra interpreter arguments from the
	// COURSEDUMP_PYTHON override, if any.
	Args []string

	// Version is the version reported by `--version`, e.g. "3.12.1".
	Version string
}

// Argv returns the argv for running the given script with the
// given script arguments through this interpreter.
func (in *Interpreter) Argv(script string, args ...string) *shellx.Argv {
	v := append([]string{}, in.Args...)
	v = append(v, script)
	v = append(v, args...)
	return &shellx.Argv{P: in.Path, V: v}
}

// Find locates a Python 3 interpreter. The returned error wraps
// [ErrNotFound] unless the failure is an override parse error.
func Find(ctx context.Context, logger model.Logger) (*Interpreter, error) {
	logger = model.ValidLoggerOrDefault(logger)
	if cmdline := os.Getenv(EnvOverride); cmdline != "" {
		logger.Debugf("pyexec: using %s=%s", EnvOverride, cmdline)
		argv, err := shellx.ParseCommandLine(cmdline)
		if err != nil {
			return nil, fmt.Errorf("pyexec: cannot parse %s: %w", EnvOverride, err)
		}
		return probe(ctx, logger, argv.P, argv.V)
	}
	for _, name := range []string{"python3", "python"} {
		path, err := shellx.Library.LookPath(name)
		if err != nil {
			logger.Debugf("pyexec: %s: not on the PATH", name)
			continue
		}
		interp, err := probe(ctx, logger, path, nil)
		if err != nil {
			logger.Debugf("pyexec: %s: %s", path, err.Error())
			continue
		}
		return interp, nil
	}
	return nil, ErrNotFound
}

// probe runs `<path> [args] --version` and accepts the interpreter
// only if it reports a 3.x version.
func probe(ctx context.Context, logger model.Logger, path string, args []string) (*Interpreter, error) {
	argv := &shellx.Argv{P: path, V: append(append([]string{}, args...), "--version")}
	out, err := shellx.OutputEx(ctx, &shellx.Config{}, argv, &shellx.Envp{})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	}
	version, err := parseVersion(string(out))
	if err != nil {
		return nil, err
	}
	logger.Debugf("pyexec: using %s (Python %s)", path, version)
	return &Interpreter{Path: path, Args: args, Version: version}, nil
}

// parseVersion extracts the version number from `--version` output,
// which looks like "Python 3.12.1".
func parseVersion(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 || fields[0] != "Python" {
		return "", fmt.Errorf("%w: unexpected --version output: %q", ErrNotFound, out)
	}
	if !strings.HasPrefix(fields[1], "3.") {
		return "", fmt.Errorf("%w: interpreter is Python %s, not Python 3", ErrNotFound, fields[1])
	}
	return fields[1], nil
}
