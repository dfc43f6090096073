// Package iconutil shells out to the macOS iconutil binary, which owns
// the icns container format.
package iconutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/cli/safeexec"
	"golang.org/x/xerrors"

	"cdr.dev/slog/v3"
)

// Options adjust how the conversion subprocess runs.
type Options struct {
	// BinaryPath specifies the "iconutil" binary to use.
	// If omitted, the $PATH will attempt to find it.
	BinaryPath string
	// Stderr receives the subprocess's diagnostics. Discarded when nil.
	Stderr io.Writer
	Logger slog.Logger
}

// LaunchError means the subprocess never started, either because the
// binary could not be found or because exec failed.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("unable to launch iconutil: %s", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CrashError means iconutil was terminated abnormally.
type CrashError struct {
	// Signal is nil when the platform does not report one.
	Signal os.Signal
}

func (*CrashError) Error() string {
	return "iconutil crashed!"
}

// ExitError means iconutil ran to completion and reported failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("iconutil returned %d", e.Code)
}

// Convert compiles the iconset directory into an icns file at outFile by
// running "iconutil -c icns". Paths are passed to the subprocess verbatim,
// so relative paths resolve against the current working directory.
func Convert(ctx context.Context, iconsetDir, outFile string, opts Options) error {
	binary := opts.BinaryPath
	if binary == "" {
		found, err := lookPath()
		if err != nil {
			return &LaunchError{Err: err}
		}
		binary = found
	}

	args := []string{"-c", "icns", "-o", outFile, iconsetDir}
	opts.Logger.Debug(ctx, "running iconutil",
		slog.F("binary", binary),
		slog.F("args", args),
	)

	// #nosec
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = opts.Stderr
	if err := cmd.Start(); err != nil {
		return &LaunchError{Err: err}
	}
	err := cmd.Wait()
	if err == nil {
		return nil
	}
	select {
	// `exec` reports a `signal: killed` error instead of the canceled
	// context. We know the cause of the kill, so surface that instead.
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	var exitErr *exec.ExitError
	if xerrors.As(err, &exitErr) {
		if !exitErr.Exited() {
			crash := &CrashError{}
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				crash.Signal = status.Signal()
			}
			return crash
		}
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return xerrors.Errorf("wait for iconutil: %w", err)
}

// lookPath resolves iconutil to an absolute path. A relative result would
// go stale for callers that change directories before running it.
func lookPath() (string, error) {
	binary, err := safeexec.LookPath("iconutil")
	if err != nil {
		return "", err
	}
	return filepath.Abs(binary)
}
