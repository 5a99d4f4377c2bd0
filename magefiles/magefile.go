//go:build mage

// Package main contains Mage build targets for syllabus-engine developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir   = "bin"
	binName  = "syllabus-engine"
	cmdPkg   = "./cmd/syllabus-engine"
	indexDir = "index"
	output   = "syllabus_structure.json"
)

var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", binPath, version)
	return nil
}

// Test runs all unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet over every package.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Extract builds the CLI and extracts the default syllabus PDF into
// syllabus_structure.json.
func Extract() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "extract", "--out", output)
}

// Index loads syllabus_structure.json into the search store.
func Index() error {
	mg.SerialDeps(Extract)
	return sh.RunV(binPath, "index", "--store-dir", indexDir, output)
}

// Serve starts the HTTP API over the extracted syllabus.
func Serve() error {
	mg.SerialDeps(Index)
	return sh.RunV(binPath, "serve", "--syllabus", output, "--store-dir", indexDir)
}

// Clean removes build output, the search store and extracted files.
func Clean() error {
	for _, p := range []string{binDir, indexDir, output} {
		if err := sh.Rm(p); err != nil {
			return fmt.Errorf("removing %s: %w", p, err)
		}
		fmt.Println("  removed", p)
	}
	return nil
}
