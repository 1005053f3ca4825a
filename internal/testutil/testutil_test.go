package testutil

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteStubCreatesExecutableThatSucceeds(t *testing.T) {
	dir := t.TempDir()
	stubPath := WriteStub(t, dir, "ok-stub")

	info, err := os.Stat(stubPath)
	if err != nil {
		t.Fatalf("stat stub: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("expected mode 0755, got %#o", info.Mode().Perm())
	}
	if err := exec.Command(stubPath).Run(); err != nil {
		t.Fatalf("expected success exit, got %v", err)
	}
}

func TestWriteStubWithExitCreatesExecutableWithRequestedExitCode(t *testing.T) {
	dir := t.TempDir()
	stubPath := WriteStubWithExit(t, dir, "exit-stub", 7)

	err := exec.Command(stubPath).Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %T", err)
	}
	if exitErr.ExitCode() != 7 {
		t.Fatalf("expected exit code 7, got %d", exitErr.ExitCode())
	}
}

func TestWriteRecordingStubLogsArguments(t *testing.T) {
	dir := t.TempDir()
	logPath := WriteRecordingStub(t, dir, "rec")

	out, err := exec.Command(filepath.Join(dir, "rec"), "a b", "--flag").Output()
	if err != nil {
		t.Fatalf("run stub: %v", err)
	}
	if strings.TrimSpace(string(out)) != "ran rec" {
		t.Fatalf("unexpected output %q", out)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "a b\n--flag\n" {
		t.Fatalf("unexpected log %q", data)
	}
}

func TestPrependPathFindsStub(t *testing.T) {
	dir := t.TempDir()
	WriteStub(t, dir, "only-here-stub")
	PrependPath(t, dir)

	got, err := exec.LookPath("only-here-stub")
	if err != nil {
		t.Fatalf("LookPath: %v", err)
	}
	if got != filepath.Join(dir, "only-here-stub") {
		t.Fatalf("unexpected path %s", got)
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	root := t.TempDir()
	WriteFile(t, root, "a/b/c.txt", "hi")
	data, err := os.ReadFile(filepath.Join(root, "a", "b", "c.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hi" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestWithWorkingDirRestoresCwd(t *testing.T) {
	before, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	dir := t.TempDir()
	WithWorkingDir(t, dir, func() {
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		resolved, _ := filepath.EvalSymlinks(dir)
		actual, _ := filepath.EvalSymlinks(cwd)
		if resolved != actual {
			t.Fatalf("expected cwd %s, got %s", resolved, actual)
		}
	})
	after, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if before != after {
		t.Fatalf("cwd not restored: %s != %s", before, after)
	}
}
