// Package clitest wires root command invocations for tests: args and
// environment start empty and stdio is mirrored into the test log.
package clitest

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coder/serpent"

	"github.com/coder/svg2icns/cli"
)

// New returns an invocation of the root command. Tests that assert on
// output should swap Stdout or Stderr for a buffer before running.
func New(t testing.TB, args ...string) *serpent.Invocation {
	var root cli.RootCmd
	return NewWithCommand(t, root.Command(), args...)
}

func NewWithCommand(t testing.TB, cmd *serpent.Command, args ...string) *serpent.Invocation {
	return &serpent.Invocation{
		Command: cmd,
		Args:    args,
		Environ: serpent.Environ{},
		Stdin:   strings.NewReader(""),
		Stdout:  &logWriter{t: t, prefix: "stdout"},
		Stderr:  &logWriter{t: t, prefix: "stderr"},
	}
}

// HandlersOK asserts that the command and all of its descendants are
// runnable and can render help.
func HandlersOK(t *testing.T, cmd *serpent.Command) {
	cmd.Walk(func(c *serpent.Command) {
		assert.NotNilf(t, c.Handler, "command %q has no handler", c.FullName())
		assert.NotNilf(t, c.HelpHandler, "command %q has no help handler", c.FullName())
	})
}

type logWriter struct {
	t      testing.TB
	prefix string
}

func (l *logWriter) Write(p []byte) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(p))
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.t.Logf("%s: %s", l.prefix, line)
	}
	return len(p), nil
}
