// Package launcher validates the environment and runs the Python
// scraper scripts as child processes.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrixtools/coursedump/internal/fsx"
	"github.com/bitrixtools/coursedump/internal/model"
	"github.com/bitrixtools/coursedump/internal/pyexec"
	"github.com/bitrixtools/coursedump/internal/shellx"
)

// Names of the scripts we know how to launch, relative to [ScriptsDir].
const (
	// ScriptsDir is the directory containing the scraper scripts.
	ScriptsDir = "scripts"

	// ParserScript downloads a course.
	ParserScript = "bitrix_parser_final.py"

	// CheckConnScript probes the course site.
	CheckConnScript = "test_connection.py"

	// CourseMapScript regenerates COURSES_MAP.md from scraped data.
	CourseMapScript = "course_map_generator.py"
)

// Errors returned by the launcher.
var (
	// ErrScriptsDirMissing means the scripts directory does not exist.
	ErrScriptsDirMissing = errors.New("launcher: scripts directory is missing")

	// ErrScriptMissing means the script file does not exist.
	ErrScriptMissing = errors.New("launcher: script file is missing")

	// ErrChildFailed means the child process exited nonzero.
	ErrChildFailed = errors.New("launcher: parsing failed")
)

// Launcher runs scraper scripts. The zero value is not usable;
// construct with [New].
type Launcher struct {
	// Config is the effective run configuration.
	Config *Config

	// Logger logs the launcher's progress.
	Logger model.Logger

	// BaseDir is the directory containing [ScriptsDir].
	BaseDir string

	// Banner, when not nil, is invoked with the resolved interpreter
	// right before starting the child process.
	Banner func(config *Config, interp *pyexec.Interpreter)
}

// New creates a [Launcher] with the given config and logger, rooted
// in the current working directory.
func New(config *Config, logger model.Logger) *Launcher {
	return &Launcher{
		Config:  config,
		Logger:  model.ValidLoggerOrDefault(logger),
		BaseDir: ".",
		Banner:  nil,
	}
}

// resolveScript checks that the scripts directory and the given
// script exist and returns the script's path.
func (lx *Launcher) resolveScript(name string) (string, error) {
	dir := filepath.Join(lx.BaseDir, ScriptsDir)
	if !fsx.DirectoryExists(dir) {
		return "", fmt.Errorf("%w: %s", ErrScriptsDirMissing, dir)
	}
	script := filepath.Join(dir, name)
	file, err := fsx.OpenFile(script)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrScriptMissing, script)
	}
	file.Close()
	return script, nil
}

// Run performs a full scrape: it verifies the prerequisites, creates
// the output directory, emits the banner, and runs the parser script
// until it terminates. On success it returns the absolute path of the
// output directory. The child's stdout and stderr pass through to the
// console unmodified.
func (lx *Launcher) Run(ctx context.Context) (string, error) {
	script, err := lx.resolveScript(ParserScript)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(lx.Config.Output, 0755); err != nil {
		return "", fmt.Errorf("launcher: cannot create output directory: %w", err)
	}
	interp, err := pyexec.Find(ctx, lx.Logger)
	if err != nil {
		return "", err
	}
	if lx.Banner != nil {
		lx.Banner(lx.Config, interp)
	}
	if err := lx.exec(ctx, interp.Argv(script, lx.Config.ChildArgs()...)); err != nil {
		return "", err
	}
	outdir, err := filepath.Abs(lx.Config.Output)
	if err != nil {
		return "", fmt.Errorf("launcher: cannot resolve output directory: %w", err)
	}
	return outdir, nil
}

// RunScript verifies the prerequisites and runs the given script with
// the given arguments. Used by the auxiliary subcommands.
func (lx *Launcher) RunScript(ctx context.Context, name string, args ...string) error {
	script, err := lx.resolveScript(name)
	if err != nil {
		return err
	}
	interp, err := pyexec.Find(ctx, lx.Logger)
	if err != nil {
		return err
	}
	return lx.exec(ctx, interp.Argv(script, args...))
}

// exec runs the given argv to completion mapping a nonzero exit
// status to [ErrChildFailed].
func (lx *Launcher) exec(ctx context.Context, argv *shellx.Argv) error {
	config := &shellx.Config{
		Logger: lx.Logger,
		Flags:  shellx.FlagShowStdoutStderr,
	}
	if err := shellx.RunEx(ctx, config, argv, &shellx.Envp{}); err != nil {
		return fmt.Errorf("%w: %s", ErrChildFailed, err.Error())
	}
	return nil
}
