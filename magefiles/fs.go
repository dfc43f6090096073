//go:build mage

package main

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ammario/tlru"
	"github.com/coder/flog"
	"github.com/magefile/mage/mg"
)

// Cache regex compilation for ergonomics.
var regexCache = tlru.New[string](tlru.ConstantCost[*regexp.Regexp], 10000)

func fastRegex(s string) *regexp.Regexp {
	if r, _, ok := regexCache.Get(s); ok {
		return r
	}
	r := regexp.MustCompile(s)
	regexCache.Set(s, r, time.Hour)
	return r
}

// upToDate reports whether dest is newer than every file under tree whose
// path matches one of the patterns. An empty pattern list matches every
// file. Set MAGE_CLEAN to force a rebuild.
func upToDate(dest, tree string, patterns ...string) bool {
	if os.Getenv("MAGE_CLEAN") != "" {
		return false
	}
	destInfo, err := os.Stat(dest)
	if err != nil {
		if os.IsNotExist(err) {
			return false
		}
		mg.Fatalf(1, "stat %q: %v", dest, err)
	}
	builtAt := destInfo.ModTime()

	var (
		walked   int
		offender string
	)
	start := time.Now()
	err = filepath.Walk(tree, func(path string, info os.FileInfo, err error) error {
		walked++
		if err != nil {
			return err
		}
		// Directory mod times move whenever entries come and go, which says
		// nothing about the files the build consumes.
		if info.IsDir() || !info.ModTime().After(builtAt) {
			return nil
		}
		if len(patterns) == 0 {
			offender = path
			return filepath.SkipAll
		}
		for _, p := range patterns {
			if fastRegex(p).MatchString(path) {
				offender = path
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		mg.Fatalf(1, "walk %q: %v", tree, err)
	}
	if mg.Verbose() {
		flog.Infof("freshness check for %q took %v (walked %d files, offender %q)",
			dest, time.Since(start), walked, offender)
	}
	return offender == ""
}
