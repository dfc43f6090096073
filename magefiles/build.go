//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/coder/flog"
)

// Build compiles the svg2icns binary into build/ with the release tag
// stamped into buildinfo. Up to date binaries are not rebuilt; set
// MAGE_CLEAN to force one.
func Build() error {
	dest := filepath.Join("build", "svg2icns")
	if runtime.GOOS == "windows" {
		dest += ".exe"
	}
	if upToDate(dest, ".", `\.go$`, `\.tpl$`) {
		flog.Infof("%q is up to date", dest)
		return nil
	}

	ldflags := fmt.Sprintf("-X github.com/coder/svg2icns/buildinfo.tag=%s", releaseTag())
	return (&cmd{exec.Command(
		"go", "build", "-ldflags", ldflags, "-o", dest, "./cmd/svg2icns",
	)}).env("CGO_ENABLED=0").run()
}

// Clean removes build outputs.
func Clean() error {
	return os.RemoveAll("build")
}

// releaseTag reads the nearest version tag. Untagged checkouts build as
// a devel version.
func releaseTag() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "v")
}
