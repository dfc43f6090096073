// Package gorules defines semantic grep rules for ruleguard, which
// golangci-lint evaluates through the gocritic linter. Run them by hand
// with
//
//	go run github.com/quasilyte/go-ruleguard/cmd/ruleguard@latest -rules rules.go ./...
package gorules

import (
	"github.com/quasilyte/go-ruleguard/dsl"
)

// Use xerrors everywhere! It provides additional stacktrace info!
//
//nolint:unused,deadcode,varnamelen
func xerrors(m dsl.Matcher) {
	m.Import("errors")
	m.Import("fmt")
	m.Import("golang.org/x/xerrors")

	m.Match("fmt.Errorf($*args)").
		Suggest("xerrors.New($args)").
		Report("Use xerrors to provide additional stacktrace information!")

	m.Match("fmt.Errorf($*args)").
		Suggest("xerrors.Errorf($args)").
		Report("Use xerrors to provide additional stacktrace information!")

	m.Match("errors.New($msg)").
		Where(m["msg"].Type.Is("string")).
		Suggest("xerrors.New($msg)").
		Report("Use xerrors to provide additional stacktrace information!")
}

// useStandardTimeoutsAndDelaysInTests forces tests to use the timeouts
// defined in the testutil package instead of magic numbers.
//
//nolint:unused,deadcode,varnamelen
func useStandardTimeoutsAndDelaysInTests(m dsl.Matcher) {
	m.Import("github.com/stretchr/testify/require")
	m.Import("github.com/coder/svg2icns/testutil")

	m.Match(`context.WithTimeout($ctx, $duration)`).
		Where(m.File().Imports("testing") && !m.File().PkgPath.Matches("testutil$") && !m["duration"].Text.Matches("^testutil\\.")).
		Report("Do not use magic numbers in test timeouts").
		Suggest("testutil.Context(t, testutil.WaitShort)")

	m.Match(`require.Eventually(t, $cond, $timeout, $interval)`).
		Where(!m["timeout"].Text.Matches("^testutil\\.")).
		Report("Do not use magic numbers in test timeouts").
		Suggest("require.Eventually(t, $cond, testutil.WaitShort, testutil.IntervalFast)")
}

// doNotCallTFailNowInsideGoroutine enforces not calling t.FailNow or
// assertions that call it from inside a goroutine, since FailNow only
// works on the goroutine running the test.
//
//nolint:unused,deadcode,varnamelen
func doNotCallTFailNowInsideGoroutine(m dsl.Matcher) {
	m.Import("testing")
	m.Match(`
	go func($*_){
		$*_
		$require.$_($*_)
		$*_
	}($*_)`).
		Where(m["require"].Text == "require").
		At(m["require"]).
		Report("Do not call functions that may call t.FailNow in a goroutine, as this can cause data races (see testing.T.FailNow)")

	m.Match(`
	go func($*_){
		$*_
		$t.$fail($*_)
		$*_
	}($*_)`).
		Where(m["t"].Type.Implements("testing.TB") && m["fail"].Text.Matches("^(FailNow|Fatal|Fatalf)$")).
		At(m["fail"]).
		Report("Do not call functions that may call t.FailNow in a goroutine, as this can cause data races (see testing.T.FailNow)")
}
