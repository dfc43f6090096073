//go:build mage

package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/coder/flog"
)

type cmd struct {
	*exec.Cmd
}

// shell splits line the way it would be typed at a prompt. Use
// exec.Command directly when an argument must contain a space.
func shell(line string) *cmd {
	args := strings.Fields(line)
	return &cmd{exec.Command(args[0], args[1:]...)}
}

func (c *cmd) cd(dir string) *cmd {
	c.Dir = dir
	return c
}

func (c *cmd) env(kv ...string) *cmd {
	if c.Env == nil {
		c.Env = os.Environ()
	}
	c.Env = append(c.Env, kv...)
	return c
}

func (c *cmd) run() error {
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	flog.Infof("exec: %s", strings.Join(c.Args, " "))
	return c.Run()
}

func inCI() bool {
	return os.Getenv("CI") != ""
}
