// Package shellx helps to run external commands.
package shellx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bitrixtools/coursedump/internal/model"
	"github.com/google/shlex"
	"golang.org/x/sys/execabs"
)

// Dependencies is the library on which this package depends.
type Dependencies interface {
	// CmdOutput is equivalent to calling c.Output.
	CmdOutput(c *execabs.Cmd) ([]byte, error)

	// CmdRun is equivalent to calling c.Run.
	CmdRun(c *execabs.Cmd) error

	// LookPath is equivalent to calling execabs.LookPath.
	LookPath(file string) (string, error)
}

// Library contains the default dependencies.
var Library Dependencies = &StdlibDependencies{}

// StdlibDependencies contains the stdlib implementation of the [Dependencies].
type StdlibDependencies struct{}

// CmdOutput implements [Dependencies].
func (*StdlibDependencies) CmdOutput(c *execabs.Cmd) ([]byte, error) {
	return c.Output()
}

// CmdRun implements [Dependencies].
func (*StdlibDependencies) CmdRun(c *execabs.Cmd) error {
	return c.Run()
}

// LookPath implements [Dependencies].
func (*StdlibDependencies) LookPath(file string) (string, error) {
	return execabs.LookPath(file)
}

// ErrNoCommandToExecute means that the command line is empty.
var ErrNoCommandToExecute = errors.New("shellx: no command to execute")

// Envp contains the environment variables to add to the current
// environment when executing a command.
type Envp struct {
	// V contains the OPTIONAL variables, in "key=value" form.
	V []string
}

// Append appends an environment variable to the environment.
func (e *Envp) Append(key, value string) {
	e.V = append(e.V, fmt.Sprintf("%s=%s", key, value))
}

// Argv contains the complete argv.
type Argv struct {
	// P is the MANDATORY absolute path of the program to execute.
	P string

	// V contains the OPTIONAL arguments.
	V []string
}

// NewArgv creates a new [Argv] from the given command and arguments. The
// command is resolved on the PATH using the [Library], which tests override.
func NewArgv(command string, args ...string) (*Argv, error) {
	fullpath, err := Library.LookPath(command)
	if err != nil {
		return nil, err
	}
	return &Argv{P: fullpath, V: args}, nil
}

// ParseCommandLine creates an instance of [Argv] from the given
// command line, which is split using shell quoting rules.
func ParseCommandLine(cmdline string) (*Argv, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, ErrNoCommandToExecute
	}
	return NewArgv(args[0], args[1:]...)
}

// Append appends arguments to the command line.
func (a *Argv) Append(args ...string) {
	a.V = append(a.V, args...)
}

const (
	// FlagShowStdoutStderr connects the child's stdout and stderr
	// to the current program's stdout and stderr.
	FlagShowStdoutStderr = 1 << iota
)

// Config contains config for executing programs.
type Config struct {
	// Logger is the OPTIONAL logger to use.
	Logger model.Logger

	// Flags contains OPTIONAL binary flags to configure the program.
	Flags int64
}

// cmd creates a new [execabs.Cmd] bound to the given context. When the
// context is canceled the child process is killed.
func cmd(ctx context.Context, config *Config, argv *Argv, envp *Envp) *execabs.Cmd {
	logger := model.ValidLoggerOrDefault(config.Logger)
	cmd := execabs.CommandContext(ctx, argv.P, argv.V...)
	cmd.Env = os.Environ()
	for _, entry := range envp.V {
		logger.Infof("+ export %s", entry)
		cmd.Env = append(cmd.Env, entry)
	}
	logger.Infof("+ %s", quotedCommandLine(argv.P, argv.V...))
	return cmd
}

// RunEx executes the given argv with the given config and extra environment,
// blocking until the child process terminates.
func RunEx(ctx context.Context, config *Config, argv *Argv, envp *Envp) error {
	cmd := cmd(ctx, config, argv, envp)
	if config.Flags&FlagShowStdoutStderr != 0 {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return Library.CmdRun(cmd)
}

// OutputEx is like [RunEx] except that, in case of success, it captures
// the standard output and returns it to the caller.
func OutputEx(ctx context.Context, config *Config, argv *Argv, envp *Envp) ([]byte, error) {
	cmd := cmd(ctx, config, argv, envp)
	if config.Flags&FlagShowStdoutStderr != 0 {
		// note: cmd.Output wants the stdout to be nil
		cmd.Stderr = os.Stderr
	}
	return Library.CmdOutput(cmd)
}

// quotedCommandLine returns a quoted command line.
func quotedCommandLine(command string, args ...string) string {
	v := []string{maybeQuoteArg(command)}
	for _, a := range args {
		v = append(v, maybeQuoteArg(a))
	}
	return strings.Join(v, " ")
}

// maybeQuoteArg quotes a command line argument if needed.
func maybeQuoteArg(a string) string {
	if strings.Contains(a, "\"") {
		a = strings.ReplaceAll(a, "\"", "\\\"")
	}
	if strings.Contains(a, " ") {
		a = "\"" + a + "\""
	}
	return a
}
