//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for paperrank developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"library",
	".secrets",
}

const (
	binDir  = "bin"
	binName = "paperrank"
	cmdPkg  = "./cmd/paperrank"
)

// Init creates the library and secrets directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/, stamping the version from $VERSION.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests. The SQLite driver needs cgo.
func Test() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, "go", "test", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check vets then tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints package, file and test function counts for the module.
func Stats() error {
	s, err := collectStats(".")
	if err != nil {
		return err
	}
	fmt.Printf("Packages:          %d\n", len(s.packages))
	fmt.Printf("Go files:          %d\n", s.files)
	fmt.Printf("Test files:        %d\n", s.testFiles)
	fmt.Printf("Test functions:    %d\n", s.tests)
	return nil
}

type stats struct {
	packages  map[string]bool
	files     int
	testFiles int
	tests     int
}

// collectStats walks root, skipping hidden and underscore-prefixed directories
// as the go tool does.
func collectStats(root string) (stats, error) {
	s := stats{packages: map[string]bool{}}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		s.files++
		s.packages[filepath.Dir(path)] = true
		if !strings.HasSuffix(path, "_test.go") {
			return nil
		}
		s.testFiles++
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "func Test") {
				s.tests++
			}
		}
		return nil
	})
	return s, err
}
