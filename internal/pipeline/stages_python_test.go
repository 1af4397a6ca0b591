package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/MarcoChavezB/pybundle/internal/config"
)

// fakeInterpreter is a POSIX shell stand-in for python. It implements just
// enough of the invocations the stages issue: venv creation (by copying
// itself into <dir>/bin/python), pip, py_compile, the -c import check and
// the PyInstaller module. Setting FAKEPY_FAIL to one of
// venv|pip|py_compile|import|pyinstaller makes that invocation exit 1.
const fakeInterpreter = `#!/bin/sh
mode="$1"; shift
case "$mode" in
-m)
  sub="$1"; shift
  case "$sub" in
  venv)
    [ "$FAKEPY_FAIL" = "venv" ] && exit 1
    mkdir -p "$1/bin" || exit 1
    cp "$0" "$1/bin/python" || exit 1
    chmod +x "$1/bin/python"
    ;;
  pip)
    [ "$FAKEPY_FAIL" = "pip" ] && exit 1
    ;;
  py_compile)
    [ "$FAKEPY_FAIL" = "py_compile" ] && exit 1
    ;;
  PyInstaller)
    [ "$FAKEPY_FAIL" = "pyinstaller" ] && exit 1
    name=""; dist="dist"
    while [ $# -gt 0 ]; do
      case "$1" in
      --name) name="$2"; shift ;;
      --distpath) dist="$2"; shift ;;
      esac
      shift
    done
    mkdir -p "$dist" || exit 1
    printf '#!/bin/sh\n' > "$dist/$name"
    chmod +x "$dist/$name"
    ;;
  esac
  ;;
-c)
  [ "$FAKEPY_FAIL" = "import" ] && exit 1
  ;;
esac
exit 0
`

// setupFakePython writes the fake interpreter and a minimal project into a
// fresh working directory and returns a config pointing at it.
func setupFakePython(t *testing.T) *config.Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter requires sh")
	}
	dir := t.TempDir()
	chdir(t, dir)

	fake := filepath.Join(dir, "fakepython")
	if err := os.WriteFile(fake, []byte(fakeInterpreter), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("demo.py", []byte("import os\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("requirements.txt", []byte("requests==2.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Project = "demo"
	cfg.EntryScript = "demo.py"
	cfg.Python.Interpreter = fake
	return cfg
}

func TestFullPipelineWithFakeInterpreter(t *testing.T) {
	cfg := setupFakePython(t)

	report, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if report.Outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %s (%s)", report.Outcome, report.Error)
	}

	// The venv, artifact dir and archive must all exist afterwards.
	for _, path := range []string{
		filepath.Join(".venv", "bin", "python"),
		filepath.Join("artifacts", "demo"),
		filepath.Join("artifacts", "demo.py"),
		filepath.Join("artifacts", "requirements.txt"),
		"demo_artifact.tar.gz",
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s after successful run: %v", path, err)
		}
	}
	if len(report.Stages) != 6 {
		t.Errorf("expected 6 stage results, got %d", len(report.Stages))
	}
}

func TestPipelineIsIdempotentAcrossRuns(t *testing.T) {
	cfg := setupFakePython(t)

	for i := 0; i < 2; i++ {
		if _, err := New(cfg).Run(context.Background()); err != nil {
			t.Fatalf("run %d failed: %v", i+1, err)
		}
	}

	entries, err := os.ReadDir("artifacts")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("expected exactly 3 artifacts after repeated runs, got %d", len(entries))
	}
}

func TestMissingRequirementsFailsStageTwo(t *testing.T) {
	cfg := setupFakePython(t)
	if err := os.Remove("requirements.txt"); err != nil {
		t.Fatal(err)
	}

	report, err := New(cfg).Run(context.Background())
	if err == nil {
		t.Fatal("expected failure without requirements file")
	}
	if report.FailedStage != StageInstallDependencies {
		t.Errorf("expected failure at %s, got %s", StageInstallDependencies, report.FailedStage)
	}
	if !errors.Is(err, ErrInstall) {
		t.Errorf("expected ErrInstall, got %v", err)
	}

	// Later stages must leave no side effects behind.
	for _, path := range []string{"dist", "artifacts", "demo_artifact.tar.gz"} {
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Errorf("stage side effect %s should not exist after early failure", path)
		}
	}
}

func TestBrokenEntryScriptFailsSyntaxCheck(t *testing.T) {
	cfg := setupFakePython(t)
	t.Setenv("FAKEPY_FAIL", "import")

	report, err := New(cfg).Run(context.Background())
	if err == nil {
		t.Fatal("expected failure from import check")
	}
	if report.FailedStage != StageSyntaxCheck {
		t.Errorf("expected failure at %s, got %s", StageSyntaxCheck, report.FailedStage)
	}
	if !errors.Is(err, ErrModuleLoad) {
		t.Errorf("expected ErrModuleLoad, got %v", err)
	}

	// The freeze stage never ran.
	if _, statErr := os.Stat("dist"); !os.IsNotExist(statErr) {
		t.Error("freeze output exists even though the syntax check failed")
	}
}

func TestFreezeFailurePropagates(t *testing.T) {
	cfg := setupFakePython(t)
	t.Setenv("FAKEPY_FAIL", "pyinstaller")

	report, err := New(cfg).Run(context.Background())
	if err == nil {
		t.Fatal("expected failure from freeze stage")
	}
	if report.FailedStage != StageFreezeExecutable {
		t.Errorf("expected failure at %s, got %s", StageFreezeExecutable, report.FailedStage)
	}
	if !errors.Is(err, ErrFreeze) {
		t.Errorf("expected ErrFreeze, got %v", err)
	}
}

func TestVenvCreationFailure(t *testing.T) {
	cfg := setupFakePython(t)
	t.Setenv("FAKEPY_FAIL", "venv")

	report, err := New(cfg).Run(context.Background())
	if err == nil {
		t.Fatal("expected failure from venv creation")
	}
	if report.FailedStage != StageCreateEnvironment {
		t.Errorf("expected failure at %s, got %s", StageCreateEnvironment, report.FailedStage)
	}
	if !errors.Is(err, ErrEnvironment) {
		t.Errorf("expected ErrEnvironment, got %v", err)
	}
}
