//go:build mage

package main

// Test runs the suite, with the race detector in CI.
func Test() error {
	if inCI() {
		return shell("go test -race -count=1 ./...").run()
	}
	return shell("go test ./...").run()
}

// Lint runs golangci-lint, which includes the ruleguard rules from
// rules.go.
func Lint() error {
	return shell("golangci-lint run").run()
}
