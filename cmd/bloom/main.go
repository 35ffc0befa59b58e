// Package main is the single-binary entrypoint for Bloom.
// One binary, local data, no accounts.
package main

import "github.com/bloom-wellness/bloom/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
