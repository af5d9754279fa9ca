package pyexec

import (
	"context"
	"errors"
	"testing"

	"github.com/bitrixtools/coursedump/internal/model"
	"github.com/bitrixtools/coursedump/internal/shellx"
	"github.com/bitrixtools/coursedump/internal/shellx/shellxtesting"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/execabs"
)

// errNotOnPath simulates execabs.LookPath failing.
var errNotOnPath = errors.New("executable file not found in $PATH")

// pathLibrary mocks the exec layer with a static map from command
// names to paths and from resolved paths to --version output.
func pathLibrary(paths map[string]string, versions map[string]string) *shellxtesting.Library {
	return &shellxtesting.Library{
		MockLookPath: func(file string) (string, error) {
			path, found := paths[file]
			if !found {
				return "", errNotOnPath
			}
			return path, nil
		},
		MockCmdOutput: func(c *execabs.Cmd) ([]byte, error) {
			version, found := versions[c.Path]
			if !found {
				return nil, errors.New("exit status 1")
			}
			return []byte(version), nil
		},
	}
}

func TestFind(t *testing.T) {
	t.Run("prefers python3", func(t *testing.T) {
		t.Setenv(EnvOverride, "")
		lib := pathLibrary(map[string]string{
			"python3": "/usr/bin/python3",
			"python":  "/usr/bin/python",
		}, map[string]string{
			"/usr/bin/python3": "Python 3.12.1\n",
			"/usr/bin/python":  "Python 2.7.18\n",
		})
		shellxtesting.WithCustomLibrary(lib, func() {
			interp, err := Find(context.Background(), model.DiscardLogger)
			if err != nil {
				t.Fatal(err)
			}
			expect := &Interpreter{
				Path:    "/usr/bin/python3",
				Args:    nil,
				Version: "3.12.1",
			}
			if diff := cmp.Diff(expect, interp); diff != "" {
				t.Fatal(diff)
			}
		})
	})

	t.Run("falls back to python when it is Python 3", func(t *testing.T) {
		t.Setenv(EnvOverride, "")
		lib := pathLibrary(map[string]string{
			"python": "/usr/bin/python",
		}, map[string]string{
			"/usr/bin/python": "Python 3.11.9\n",
		})
		shellxtesting.WithCustomLibrary(lib, func() {
			interp, err := Find(context.Background(), model.DiscardLogger)
			if err != nil {
				t.Fatal(err)
			}
			if interp.Path != "/usr/bin/python" {
				t.Fatal("unexpected path", interp.Path)
			}
			if interp.Version != "3.11.9" {
				t.Fatal("unexpected version", interp.Version)
			}
		})
	})

	t.Run("rejects a Python 2 interpreter", func(t *testing.T) {
		t.Setenv(EnvOverride, "")
		lib := pathLibrary(map[string]string{
			"python": "/usr/bin/python",
		}, map[string]string{
			"/usr/bin/python": "Python 2.7.18\n",
		})
		shellxtesting.WithCustomLibrary(lib, func() {
			interp, err := Find(context.Background(), model.DiscardLogger)
			if !errors.Is(err, ErrNotFound) {
				t.Fatal("unexpected error", err)
			}
			if interp != nil {
				t.Fatal("expected nil interpreter")
			}
		})
	})

	t.Run("fails when nothing is on the PATH", func(t *testing.T) {
		t.Setenv(EnvOverride, "")
		lib := pathLibrary(nil, nil)
		shellxtesting.WithCustomLibrary(lib, func() {
			interp, err := Find(context.Background(), model.DiscardLogger)
			if !errors.Is(err, ErrNotFound) {
				t.Fatal("unexpected error", err)
			}
			if interp != nil {
				t.Fatal("expected nil interpreter")
			}
		})
	})

	t.Run("honours the environment override", func(t *testing.T) {
		t.Setenv(EnvOverride, "python3.12 -X utf8")
		lib := pathLibrary(map[string]string{
			"python3.12": "/opt/python/bin/python3.12",
		}, map[string]string{
			"/opt/python/bin/python3.12": "Python 3.12.4\n",
		})
		shellxtesting.WithCustomLibrary(lib, func() {
			interp, err := Find(context.Background(), model.DiscardLogger)
			if err != nil {
				t.Fatal(err)
			}
			expect := &Interpreter{
				Path:    "/opt/python/bin/python3.12",
				Args:    []string{"-X", "utf8"},
				Version: "3.12.4",
			}
			if diff := cmp.Diff(expect, interp); diff != "" {
				t.Fatal(diff)
			}
		})
	})

	t.Run("rejects an unparseable override", func(t *testing.T) {
		t.Setenv(EnvOverride, `python3 "unterminated`)
		lib := pathLibrary(nil, nil)
		shellxtesting.WithCustomLibrary(lib, func() {
			interp, err := Find(context.Background(), model.DiscardLogger)
			if err == nil {
				t.Fatal("expected an error")
			}
			if interp != nil {
				t.Fatal("expected nil interpreter")
			}
		})
	})
}

func TestInterpreterArgv(t *testing.T) {
	interp := &Interpreter{
		Path:    "/usr/bin/python3",
		Args:    []string{"-X", "utf8"},
		Version: "3.12.1",
	}
	argv := interp.Argv("scripts/bitrix_parser_final.py", "--url", "https://example.com/")
	expect := &shellx.Argv{
		P: "/usr/bin/python3",
		V: []string{"-X", "utf8", "scripts/bitrix_parser_final.py", "--url", "https://example.com/"},
	}
	if diff := cmp.Diff(expect, argv); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseVersion(t *testing.T) {
	t.Run("with ordinary output", func(t *testing.T) {
		version, err := parseVersion("Python 3.12.1\n")
		if err != nil {
			t.Fatal(err)
		}
		if version != "3.12.1" {
			t.Fatal("unexpected version", version)
		}
	})

	t.Run("with garbage output", func(t *testing.T) {
		version, err := parseVersion("not a version\nat all\n")
		if !errors.Is(err, ErrNotFound) {
			t.Fatal("unexpected error", err)
		}
		if version != "" {
			t.Fatal("expected empty version")
		}
	})
}
