//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Fmt mg.Namespace

func (Fmt) Go() error {
	return shell(
		"go run mvdan.cc/gofumpt@v0.8.0 -w -l .",
	).run()
}

func (Fmt) All() error {
	mg.Deps(Fmt.Go)
	return nil
}
